package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	e "github.com/joblyhq/jobly/internal/board/errors"
	"github.com/joblyhq/jobly/internal/board/models"
	"github.com/joblyhq/jobly/internal/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// mockCompanyController implements CompanyController with function fields.
type mockCompanyController struct {
	createCompany func(context.Context, *models.Company) (*models.Company, error)
	listCompanies func(context.Context, map[string]string) ([]models.Company, error)
	getCompany    func(context.Context, string) (*models.CompanyDetail, error)
	updateCompany func(context.Context, string, *models.CompanyUpdate) (*models.Company, error)
	deleteCompany func(context.Context, string) error
}

func (m *mockCompanyController) CreateCompany(ctx context.Context, c *models.Company) (*models.Company, error) {
	return m.createCompany(ctx, c)
}

func (m *mockCompanyController) ListCompanies(ctx context.Context, f map[string]string) ([]models.Company, error) {
	return m.listCompanies(ctx, f)
}

func (m *mockCompanyController) GetCompany(ctx context.Context, handle string) (*models.CompanyDetail, error) {
	return m.getCompany(ctx, handle)
}

func (m *mockCompanyController) UpdateCompany(ctx context.Context, handle string, u *models.CompanyUpdate) (*models.Company, error) {
	return m.updateCompany(ctx, handle, u)
}

func (m *mockCompanyController) DeleteCompany(ctx context.Context, handle string) error {
	return m.deleteCompany(ctx, handle)
}

// mockJobController implements JobController with function fields.
type mockJobController struct {
	createJob func(context.Context, *models.Job) (*models.Job, error)
	listJobs  func(context.Context, map[string]string) ([]models.JobListing, error)
	getJob    func(context.Context, int64) (*models.Job, error)
	updateJob func(context.Context, int64, *models.JobUpdate) (*models.Job, error)
	deleteJob func(context.Context, int64) error
}

func (m *mockJobController) CreateJob(ctx context.Context, j *models.Job) (*models.Job, error) {
	return m.createJob(ctx, j)
}

func (m *mockJobController) ListJobs(ctx context.Context, f map[string]string) ([]models.JobListing, error) {
	return m.listJobs(ctx, f)
}

func (m *mockJobController) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	return m.getJob(ctx, id)
}

func (m *mockJobController) UpdateJob(ctx context.Context, id int64, u *models.JobUpdate) (*models.Job, error) {
	return m.updateJob(ctx, id, u)
}

func (m *mockJobController) DeleteJob(ctx context.Context, id int64) error {
	return m.deleteJob(ctx, id)
}

func serve(t *testing.T, companies CompanyController, jobs JobController, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(companies, jobs, zaptest.NewLogger(t))

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestCreateCompany(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		companies := &mockCompanyController{
			createCompany: func(_ context.Context, c *models.Company) (*models.Company, error) {
				return c, nil
			},
		}
		rec := serve(t, companies, nil, http.MethodPost, "/companies",
			`{"handle":"c1","name":"C1","description":"d","numEmployees":5,"logoUrl":null}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			Company models.Company `json:"company"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "c1", resp.Company.Handle)
		assert.Equal(t, 5, *resp.Company.NumEmployees)
		assert.Nil(t, resp.Company.LogoURL)
	})

	t.Run("duplicate handle maps to 409", func(t *testing.T) {
		companies := &mockCompanyController{
			createCompany: func(context.Context, *models.Company) (*models.Company, error) {
				return nil, e.ErrDuplicateHandle
			},
		}
		rec := serve(t, companies, nil, http.MethodPost, "/companies", `{"handle":"c1","name":"C1"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		rec := serve(t, &mockCompanyController{}, nil, http.MethodPost, "/companies", `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown body field maps to 400", func(t *testing.T) {
		rec := serve(t, &mockCompanyController{}, nil, http.MethodPost, "/companies",
			`{"handle":"c1","name":"C1","ceo":"me"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListCompanies(t *testing.T) {
	t.Run("filters pass through from the query string", func(t *testing.T) {
		var seen map[string]string
		companies := &mockCompanyController{
			listCompanies: func(_ context.Context, f map[string]string) ([]models.Company, error) {
				seen = f
				return []models.Company{}, nil
			},
		}
		rec := serve(t, companies, nil, http.MethodGet, "/companies?name=net&minEmployees=5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]string{"name": "net", "minEmployees": "5"}, seen)
		assert.JSONEq(t, `{"companies":[]}`, rec.Body.String())
	})

	t.Run("invalid filter maps to 400", func(t *testing.T) {
		companies := &mockCompanyController{
			listCompanies: func(context.Context, map[string]string) ([]models.Company, error) {
				return nil, e.ErrInvalidInput
			},
		}
		rec := serve(t, companies, nil, http.MethodGet, "/companies?minEmployees=ten", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetCompany(t *testing.T) {
	t.Run("found, with jobs attached", func(t *testing.T) {
		companies := &mockCompanyController{
			getCompany: func(_ context.Context, handle string) (*models.CompanyDetail, error) {
				return &models.CompanyDetail{
					Company: models.Company{Handle: handle, Name: "C1"},
					Jobs:    []models.Job{},
				}, nil
			},
		}
		rec := serve(t, companies, nil, http.MethodGet, "/companies/c1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"handle":"c1"`)
		assert.Contains(t, body, `"jobs":[]`)
	})

	t.Run("absent maps to 404", func(t *testing.T) {
		companies := &mockCompanyController{
			getCompany: func(context.Context, string) (*models.CompanyDetail, error) {
				return nil, e.ErrNotFound
			},
		}
		rec := serve(t, companies, nil, http.MethodGet, "/companies/ghost", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateCompany(t *testing.T) {
	t.Run("partial body decodes into pointer fields", func(t *testing.T) {
		var seen *models.CompanyUpdate
		companies := &mockCompanyController{
			updateCompany: func(_ context.Context, handle string, u *models.CompanyUpdate) (*models.Company, error) {
				seen = u
				return &models.Company{Handle: handle, Name: *u.Name}, nil
			},
		}
		rec := serve(t, companies, nil, http.MethodPatch, "/companies/c1", `{"name":"New"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "New", *seen.Name)
		assert.Nil(t, seen.Description)
		assert.Nil(t, seen.NumEmployees)
		assert.Nil(t, seen.LogoURL)
	})

	t.Run("attempt to change handle maps to 400", func(t *testing.T) {
		rec := serve(t, &mockCompanyController{}, nil, http.MethodPatch, "/companies/c1", `{"handle":"c2"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteCompany(t *testing.T) {
	companies := &mockCompanyController{
		deleteCompany: func(context.Context, string) error { return nil },
	}
	rec := serve(t, companies, nil, http.MethodDelete, "/companies/c1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":"c1"}`, rec.Body.String())
}

func TestCreateJob(t *testing.T) {
	t.Run("created, equity as exact decimal string", func(t *testing.T) {
		jobs := &mockJobController{
			createJob: func(_ context.Context, j *models.Job) (*models.Job, error) {
				j.ID = 1
				return j, nil
			},
		}
		rec := serve(t, nil, jobs, http.MethodPost, "/jobs",
			`{"title":"Eng","salary":100000,"equity":"0.25","companyHandle":"c1"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"equity":"0.25"`)
		assert.Contains(t, rec.Body.String(), `"companyHandle":"c1"`)
	})

	t.Run("missing company maps to 400", func(t *testing.T) {
		jobs := &mockJobController{
			createJob: func(context.Context, *models.Job) (*models.Job, error) {
				return nil, e.ErrInvalidInput
			},
		}
		rec := serve(t, nil, jobs, http.MethodPost, "/jobs",
			`{"title":"Eng","companyHandle":"ghost"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("client-supplied id maps to 400", func(t *testing.T) {
		rec := serve(t, nil, &mockJobController{}, http.MethodPost, "/jobs",
			`{"id":9,"title":"Eng","companyHandle":"c1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestJobByID(t *testing.T) {
	t.Run("non-integer id maps to 400", func(t *testing.T) {
		rec := serve(t, nil, &mockJobController{}, http.MethodGet, "/jobs/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get found", func(t *testing.T) {
		equity := decimal.RequireFromString("0.1")
		jobs := &mockJobController{
			getJob: func(_ context.Context, id int64) (*models.Job, error) {
				return &models.Job{ID: id, Title: "Eng", Equity: &equity, CompanyHandle: "c1"}, nil
			},
		}
		rec := serve(t, nil, jobs, http.MethodGet, "/jobs/7", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":7`)
	})

	t.Run("patch rejects companyHandle", func(t *testing.T) {
		rec := serve(t, nil, &mockJobController{}, http.MethodPatch, "/jobs/7", `{"companyHandle":"c2"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete returns the id", func(t *testing.T) {
		jobs := &mockJobController{
			deleteJob: func(context.Context, int64) error { return nil },
		}
		rec := serve(t, nil, jobs, http.MethodDelete, "/jobs/7", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"deleted":7}`, rec.Body.String())
	})
}

func TestStoreFailureIsOpaque(t *testing.T) {
	companies := &mockCompanyController{
		getCompany: func(context.Context, string) (*models.CompanyDetail, error) {
			return nil, errors.New("pq: connection reset")
		},
	}
	rec := serve(t, companies, nil, http.MethodGet, "/companies/c1", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestUpdateJobPartialDecode(t *testing.T) {
	var seen *models.JobUpdate
	jobs := &mockJobController{
		updateJob: func(_ context.Context, id int64, u *models.JobUpdate) (*models.Job, error) {
			seen = u
			return &models.Job{ID: id, Title: "kept", Salary: utils.Ptr(1)}, nil
		},
	}
	rec := serve(t, nil, jobs, http.MethodPatch, "/jobs/3", `{"salary":90000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Nil(t, seen.Title)
	assert.Nil(t, seen.Equity)
	assert.Equal(t, 90000, *seen.Salary)
}

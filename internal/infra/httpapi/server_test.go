package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfieprojectsdev/homebase/internal/app"
	"github.com/alfieprojectsdev/homebase/internal/domain/bill"
	"github.com/alfieprojectsdev/homebase/internal/infra/database"
)

// memBillRepo is a minimal in-memory bill.Repository backing the router
// tests.
type memBillRepo struct {
	bills []*bill.Bill
}

func (r *memBillRepo) Create(_ context.Context, b *bill.Bill) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.bills = append(r.bills, b)
	return nil
}

func (r *memBillRepo) GetByID(_ context.Context, orgID, id uuid.UUID) (*bill.Bill, error) {
	for _, b := range r.bills {
		if b.ID == id && b.OrgID == orgID {
			return b, nil
		}
	}
	return nil, database.ErrBillNotFound
}

func (r *memBillRepo) Update(_ context.Context, b *bill.Bill) error { return nil }

func (r *memBillRepo) Delete(_ context.Context, orgID, id uuid.UUID) error {
	for i, b := range r.bills {
		if b.ID == id && b.OrgID == orgID {
			r.bills = append(r.bills[:i], r.bills[i+1:]...)
			return nil
		}
	}
	return database.ErrBillNotFound
}

func (r *memBillRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*bill.Bill, error) {
	var out []*bill.Bill
	for _, b := range r.bills {
		if b.OrgID == orgID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBillRepo) ListByName(_ context.Context, orgID uuid.UUID, name string, limit int) ([]*bill.Bill, error) {
	var out []*bill.Bill
	for _, b := range r.bills {
		if b.OrgID == orgID && b.Name == name {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.After(out[j].DueDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memBillRepo) ListPaidByOrg(_ context.Context, orgID uuid.UUID) ([]*bill.Bill, error) {
	return nil, nil
}

func (r *memBillRepo) ListPending(_ context.Context) ([]*bill.Bill, error) { return nil, nil }

func (r *memBillRepo) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) { return 0, nil }

func (r *memBillRepo) SaveUrgency(_ context.Context, b *bill.Bill) error { return nil }

func (r *memBillRepo) CoTrackingRate(_ context.Context, baseCategory, alsoCategory string) (float64, error) {
	return 0, nil
}

func newTestRouter() (http.Handler, *memBillRepo) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	repo := &memBillRepo{}
	billService := app.NewBillService(repo, log)
	srv := NewServer(billService, nil, nil, nil, "shh", log)
	return srv.Router(), repo
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestOrgHeaderIsRequired(t *testing.T) {
	router, _ := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bills", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/bills", nil)
	req.Header.Set("X-Org-ID", "not-a-uuid")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCronEndpointRequiresSecret(t *testing.T) {
	router, _ := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cron/daily", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/daily", nil)
	req.Header.Set("X-Cron-Secret", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBillCreateAndFetch(t *testing.T) {
	router, _ := newTestRouter()
	orgID := uuid.New().String()

	body := `{
		"name": "Meralco",
		"amount": "2450.75",
		"dueDate": "2025-07-10T00:00:00Z",
		"category": "utility-electric",
		"recurrence": {"frequency": "monthly", "interval": 1}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/bills", strings.NewReader(body))
	req.Header.Set("X-Org-ID", orgID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"Repeats monthly"`)
	assert.Contains(t, rec.Body.String(), `"2450.75"`)

	listReq := httptest.NewRequest(http.MethodGet, "/api/bills", nil)
	listReq.Header.Set("X-Org-ID", orgID)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)

	require.Equal(t, http.StatusOK, listRec.Code)
	assert.Contains(t, listRec.Body.String(), `"Meralco"`)
}

func TestBillCreate_BadAmountIsRejected(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/bills",
		strings.NewReader(`{"name": "Meralco", "amount": "lots", "dueDate": "2025-07-10T00:00:00Z"}`))
	req.Header.Set("X-Org-ID", uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBillFetch_UnknownIDIsNotFound(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/bills/"+uuid.New().String(), nil)
	req.Header.Set("X-Org-ID", uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBillFetch_CrossOrgIsNotFound(t *testing.T) {
	router, repo := newTestRouter()
	owner := uuid.New()
	b := &bill.Bill{ID: uuid.New(), OrgID: owner, Name: "Meralco", DueDate: time.Now(), Status: bill.StatusPending}
	repo.bills = append(repo.bills, b)

	req := httptest.NewRequest(http.MethodGet, "/api/bills/"+b.ID.String(), nil)
	req.Header.Set("X-Org-ID", uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

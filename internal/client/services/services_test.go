package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/stockyard/internal/client/client"
	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

// ---- fakes ----

type fakeStore struct {
	session   models.Session
	loginReq  models.LoginRequest
	loginErr  error
	pwReq     *models.ChangePasswordRequest
	logouts   int
	updated   []models.Identity
	updateErr error
}

func (f *fakeStore) Login(_ context.Context, req models.LoginRequest) (models.Session, error) {
	f.loginReq = req
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	f.session = models.Session{Credential: "tok", Identity: &models.Identity{Email: req.Email}, Authenticated: true}
	return f.session, nil
}

func (f *fakeStore) Logout(context.Context) error { f.logouts++; return nil }

func (f *fakeStore) ChangePassword(_ context.Context, req models.ChangePasswordRequest) (*models.ChangePasswordResponse, error) {
	f.pwReq = &req
	return &models.ChangePasswordResponse{Success: true}, nil
}

func (f *fakeStore) Current() models.Session { return f.session }

func (f *fakeStore) UpdateIdentity(_ context.Context, id models.Identity) error {
	f.updated = append(f.updated, id)
	return f.updateErr
}

type fakeClaims struct{}

func (fakeClaims) Describe(tok string) *models.Claims {
	return &models.Claims{Email: "from-" + tok}
}

type fakeAPI struct {
	merchants []models.Merchant
	listErr   error
	created   []models.Merchant
	movements []models.Movement

	profit     *models.ProfitStats
	export     *models.Export
	apiErr     error
	users      map[int64]models.Identity
	lastPeriod models.Period
}

func (f *fakeAPI) ListMerchants(context.Context) ([]models.Merchant, error) {
	return f.merchants, f.listErr
}

func (f *fakeAPI) CreateMerchant(_ context.Context, m models.Merchant) (*models.Merchant, error) {
	f.created = append(f.created, m)
	m.ID = int64(len(f.created) + 100)
	return &m, nil
}

func (f *fakeAPI) UpdateMerchant(_ context.Context, id int64, m models.Merchant) (*models.Merchant, error) {
	m.ID = id
	return &m, nil
}

func (f *fakeAPI) DeleteMerchant(context.Context, int64) error { return f.apiErr }

func (f *fakeAPI) ListMovements(context.Context) ([]models.Movement, error) { return f.movements, nil }

func (f *fakeAPI) CreateMovement(_ context.Context, m models.Movement) (*models.Movement, error) {
	f.movements = append(f.movements, m)
	return &m, nil
}

func (f *fakeAPI) DashboardStats(context.Context) (*models.DashboardStats, error) {
	return &models.DashboardStats{TotalMerchants: 2}, nil
}

func (f *fakeAPI) ProfitStats(context.Context, models.DateRange) (*models.ProfitStats, error) {
	return f.profit, f.apiErr
}

func (f *fakeAPI) IncomeBySpecies(context.Context, models.DateRange) ([]models.SpeciesStats, error) {
	return []models.SpeciesStats{{Species: "bovino", Total: 5}}, nil
}

func (f *fakeAPI) IncomeByVehicle(context.Context, models.DateRange) ([]models.VehicleStats, error) {
	return []models.VehicleStats{{VehicleType: "camión", Count: 1}}, nil
}

func (f *fakeAPI) PeriodReport(_ context.Context, p models.Period) (models.PeriodReport, error) {
	f.lastPeriod = p
	return models.PeriodReport(`{}`), nil
}

func (f *fakeAPI) ExportReport(context.Context, models.ExportFormat, models.DateRange) (*models.Export, error) {
	return f.export, f.apiErr
}

func (f *fakeAPI) ListUsers(context.Context) ([]models.Identity, error) {
	var out []models.Identity
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeAPI) GetUser(_ context.Context, id int64) (*models.Identity, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, &client.APIError{Kind: client.KindNotFound, Status: 404}
	}
	return &u, nil
}

func (f *fakeAPI) CreateUser(_ context.Context, req models.CreateUserRequest) (*models.Identity, error) {
	return &models.Identity{ID: 50, Email: req.Email, Role: req.Role}, nil
}

func (f *fakeAPI) UpdateUser(_ context.Context, id int64, req models.UpdateUserRequest) (*models.Identity, error) {
	u := f.users[id]
	if req.Role != "" {
		u.Role = req.Role
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	f.users[id] = u
	return &u, nil
}

func (f *fakeAPI) DeleteUser(context.Context, int64) error { return nil }

type fakeSink struct {
	got *models.Export
	err error
}

func (s *fakeSink) Put(_ context.Context, e *models.Export) (string, error) {
	s.got = e
	return "mem://" + e.Name, s.err
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.ErrorIs(t, err, client.ErrValidation)
	return verr.Fields
}

// ---- auth ----

func TestAuthService_Login(t *testing.T) {
	st := &fakeStore{}
	a := NewAuthService(st, fakeClaims{}, NewValidator())

	_, err := a.Login(context.Background(), "  Admin@Example.COM ", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", st.loginReq.Email)

	_, err = a.Login(context.Background(), "not-an-email", []byte(""))
	fields := fieldsOf(t, err)
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "is required", fields["password"])
}

func TestAuthService_ChangePassword(t *testing.T) {
	st := &fakeStore{}
	a := NewAuthService(st, fakeClaims{}, NewValidator())
	ctx := context.Background()

	_, err := a.ChangePassword(ctx, []byte("old123"), []byte("new123"), []byte("other1"))
	assert.Contains(t, fieldsOf(t, err), "confirmPassword")

	_, err = a.ChangePassword(ctx, []byte("old123"), []byte("short"), []byte("short"))
	assert.Equal(t, "must be at least 6 characters", fieldsOf(t, err)["newPassword"])

	_, err = a.ChangePassword(ctx, []byte("same12"), []byte("same12"), []byte("same12"))
	assert.Equal(t, "must differ from the current value", fieldsOf(t, err)["newPassword"])
	assert.Nil(t, st.pwReq)

	resp, err := a.ChangePassword(ctx, []byte("old123"), []byte("new123"), []byte("new123"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "new123", st.pwReq.NewPassword)
}

func TestAuthService_WhoamiAndLogout(t *testing.T) {
	st := &fakeStore{}
	a := NewAuthService(st, fakeClaims{}, NewValidator())

	s, c := a.Whoami()
	assert.True(t, s.Anonymous())
	assert.Nil(t, c)

	st.session = models.Session{Credential: "abc"}
	_, c = a.Whoami()
	require.NotNil(t, c)
	assert.Equal(t, "from-abc", c.Email)

	require.NoError(t, a.Logout(context.Background()))
	assert.Equal(t, 1, st.logouts)
}

// ---- merchants ----

func TestFilterMerchants(t *testing.T) {
	all := []models.Merchant{
		{ID: 1, FirstName: "Juan", LastName: "Pérez", DNI: "30111222"},
		{ID: 2, FirstName: "Ana", LastName: "Gómez", DNI: "28999000"},
		{ID: 3, Name: "Hacienda SA", DNI: "20300400"},
	}

	assert.Nil(t, FilterMerchants(all, "   "))
	assert.Len(t, FilterMerchants(all, "JUAN"), 1)
	assert.Equal(t, int64(2), FilterMerchants(all, "2899")[0].ID)
	assert.Equal(t, int64(3), FilterMerchants(all, "hacienda")[0].ID)
	assert.Len(t, FilterMerchants(all, "0"), 3)
	assert.Empty(t, FilterMerchants(all, "zzz"))
}

func TestPrefill(t *testing.T) {
	assert.Equal(t, models.Merchant{DNI: "30111222"}, Prefill(" 30111222 "))
	assert.Equal(t, models.Merchant{FirstName: "Juan Carlos", LastName: "Pérez"}, Prefill("Juan Carlos Pérez"))
	assert.Equal(t, models.Merchant{FirstName: "Juan"}, Prefill("Juan"))
	assert.Equal(t, models.Merchant{FirstName: "3011122"}, Prefill("3011122"))
}

func TestMerchantService_CreateValidates(t *testing.T) {
	api := &fakeAPI{}
	s := NewMerchantService(api, NewValidator())

	_, err := s.Create(context.Background(), models.Merchant{FirstName: " Juan "})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "lastName")
	assert.Contains(t, fields, "dni")
	assert.Empty(t, api.created)

	m, err := s.Create(context.Background(), models.Merchant{FirstName: " Juan ", LastName: "Pérez", DNI: "30111222"})
	require.NoError(t, err)
	assert.Equal(t, "Juan", m.FirstName)
	assert.Equal(t, int64(101), m.ID)

	u, err := s.Update(context.Background(), 7, models.Merchant{FirstName: "A", LastName: "B", DNI: "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
}

func TestMerchantService_SearchPropagatesErrors(t *testing.T) {
	boom := errors.New("down")
	s := NewMerchantService(&fakeAPI{listErr: boom}, NewValidator())
	_, err := s.Search(context.Background(), "juan")
	require.ErrorIs(t, err, boom)
}

// ---- movements ----

func TestDraft_Totals(t *testing.T) {
	var d Draft
	d.AddItem(models.MovementItem{Category: models.CategoryLivestock, Type: "vaca", QtyIn: 3, UnitPrice: 1500})
	d.AddItem(models.MovementItem{Category: models.CategoryGarage, Type: "día", QtyIn: 2, UnitPrice: 250.5})

	assert.Equal(t, 4500.0, d.Items[0].Subtotal)
	assert.Equal(t, 501.0, d.Items[1].Subtotal)
	assert.Equal(t, 5001.0, d.Total())

	d.RemoveItem(5)
	d.RemoveItem(0)
	assert.Equal(t, 501.0, d.Total())
}

func TestDefaultMerchant(t *testing.T) {
	_, ok := DefaultMerchant(nil)
	assert.False(t, ok)

	m, _ := DefaultMerchant([]models.Merchant{{ID: 4}, {ID: 1}})
	assert.Equal(t, int64(1), m.ID)

	m, _ = DefaultMerchant([]models.Merchant{{ID: 4}, {ID: 5}})
	assert.Equal(t, int64(4), m.ID)
}

func TestMovementService_Submit(t *testing.T) {
	api := &fakeAPI{}
	s := NewMovementService(api, NewValidator())
	fixed := time.Date(2025, 6, 1, 15, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	d := Draft{MerchantID: 1}
	d.AddItem(models.MovementItem{Category: models.CategoryVehicle, Type: "camión", QtyIn: 1, UnitPrice: 800})

	m, err := s.Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 800.0, m.Total)
	require.NotNil(t, m.Date)
	assert.True(t, m.Date.Equal(fixed))
	assert.Len(t, api.movements, 1)
}

func TestMovementService_SubmitRejectsInvalid(t *testing.T) {
	api := &fakeAPI{}
	s := NewMovementService(api, NewValidator())

	_, err := s.Submit(context.Background(), Draft{})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "merchant_id")
	assert.Contains(t, fields, "items")

	d := Draft{MerchantID: 1, Items: []models.MovementItem{{Category: "caballo", Type: "x", QtyIn: 0, UnitPrice: -1}}}
	_, err = s.Submit(context.Background(), d)
	fields = fieldsOf(t, err)
	assert.Equal(t, "must be one of: ganado, vehículo, cochera", fields["items[0].category"])
	assert.Equal(t, "must be at least 1", fields["items[0].qty_in"])
	assert.Equal(t, "must be at least 0", fields["items[0].unit_price"])
	assert.Empty(t, api.movements)
}

// ---- reports ----

func TestReportService_Summary(t *testing.T) {
	api := &fakeAPI{profit: &models.ProfitStats{Net: 3}}
	s := NewReportService(api, &fakeSink{}, NewValidator())

	sum, err := s.Summary(context.Background(), models.DateRange{From: "2025-01-01", To: "2025-01-31"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, sum.Profit.Net)
	assert.Len(t, sum.Species, 1)
	assert.Len(t, sum.Vehicles, 1)

	_, err = s.Summary(context.Background(), models.DateRange{From: "01/01/2025"})
	assert.Contains(t, fieldsOf(t, err), "From")

	_, err = s.Summary(context.Background(), models.DateRange{From: "2025-02-01", To: "2025-01-01"})
	assert.Contains(t, fieldsOf(t, err), "To")
}

func TestReportService_SummaryStopsOnError(t *testing.T) {
	forbidden := &client.APIError{Kind: client.KindForbidden, Status: 403}
	s := NewReportService(&fakeAPI{apiErr: forbidden}, &fakeSink{}, NewValidator())

	_, err := s.Summary(context.Background(), models.DateRange{})
	require.ErrorIs(t, err, client.ErrForbidden)
}

func TestReportService_Export(t *testing.T) {
	sink := &fakeSink{}
	api := &fakeAPI{export: &models.Export{Name: "r.csv", Data: []byte("a,b")}}
	s := NewReportService(api, sink, NewValidator())

	loc, err := s.Export(context.Background(), models.ExportCSV, models.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, "mem://r.csv", loc)
	assert.Equal(t, []byte("a,b"), sink.got.Data)

	_, err = s.Export(context.Background(), models.ExportFormat("pdf"), models.DateRange{})
	assert.Contains(t, fieldsOf(t, err), "format")

	sink.err = errors.New("bucket missing")
	_, err = s.Export(context.Background(), models.ExportXLSX, models.DateRange{})
	require.ErrorContains(t, err, "store export r.csv")
}

func TestReportService_PeriodAndDashboard(t *testing.T) {
	api := &fakeAPI{}
	s := NewReportService(api, &fakeSink{}, NewValidator())

	_, err := s.Period(context.Background(), models.PeriodYearly)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodYearly, api.lastPeriod)

	d, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalMerchants)
}

// ---- users ----

func TestUserService_CreateValidates(t *testing.T) {
	s := NewUserService(&fakeAPI{}, &fakeStore{}, NewValidator())

	_, err := s.Create(context.Background(), models.CreateUserRequest{Email: "x", Password: "123", Role: "root"})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Equal(t, "must be one of: admin personal", fields["role"])

	u, err := s.Create(context.Background(), models.CreateUserRequest{Email: " New@Example.com", Password: "123456", Role: models.RolePersonal})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
}

func TestUserService_UpdateSelfRefreshesIdentity(t *testing.T) {
	api := &fakeAPI{users: map[int64]models.Identity{
		1: {ID: 1, Email: "me@example.com", Role: models.RoleAdmin},
		2: {ID: 2, Email: "other@example.com", Role: models.RolePersonal},
	}}
	st := &fakeStore{session: models.Session{Credential: "t", Identity: &models.Identity{ID: 1, Email: "me@example.com", Role: models.RoleAdmin}}}
	s := NewUserService(api, st, NewValidator())

	_, err := s.Update(context.Background(), 2, models.UpdateUserRequest{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Empty(t, st.updated)

	_, err = s.Update(context.Background(), 1, models.UpdateUserRequest{Email: "ME2@example.com"})
	require.NoError(t, err)
	require.Len(t, st.updated, 1)
	assert.Equal(t, "me2@example.com", st.updated[0].Email)

	_, err = s.Update(context.Background(), 1, models.UpdateUserRequest{Password: "123"})
	assert.Contains(t, fieldsOf(t, err), "password")
}

func TestUserService_GetMissing(t *testing.T) {
	s := NewUserService(&fakeAPI{users: map[int64]models.Identity{}}, &fakeStore{}, NewValidator())
	_, err := s.Get(context.Background(), 9)
	require.ErrorIs(t, err, client.ErrNotFound)
}

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"till-reconciliation-engine/internal/adapter/http/dto"
	"till-reconciliation-engine/internal/adapter/http/middleware"
	"till-reconciliation-engine/internal/core/domain"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/internal/core/ports/mocks"
	"till-reconciliation-engine/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func authenticate(c *gin.Context, empleadoID int64) {
	c.Set(middleware.CtxEmpleadoID, empleadoID)
	c.Set(middleware.CtxUsuario, "mgomez")
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Nombre:   "Maria Gomez",
		Usuario:  "mgomez",
		Password: "password123",
	}).Return(&domain.Employee{ID: 4, Nombre: "Maria Gomez", Usuario: "mgomez"}, nil)

	w, c := testContext(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Nombre:   "Maria Gomez",
		Usuario:  "mgomez",
		Password: "password123",
	})

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["empleado_id"])
	assert.Equal(t, "mgomez", data["usuario"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))

	// Empty body => binding error
	w, c := testContext(t, http.MethodPost, "/api/v1/auth/register", map[string]string{})

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "mgomez", "password123").Return("jwt-token-123", expiry, nil)

	w, c := testContext(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Usuario:  "mgomez",
		Password: "password123",
	})

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_BadCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "mgomez", "wrong").
		Return("", time.Time{}, apperror.ErrInvalidCredentials())

	w, c := testContext(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Usuario:  "mgomez",
		Password: "wrong",
	})

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Shift Handler Tests ---

func TestOpenShift_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockShift := mocks.NewMockShiftService(ctrl)
	h := NewShiftHandler(mockShift)

	snap := domain.WalletSnapshot{
		{Wallet: domain.Wallet{Servicio: "MP", CBU: "123", Titular: "Ana"}, Monto: 10000},
	}
	mockShift.EXPECT().Open(gomock.Any(), ports.OpenShiftRequest{
		EmpleadoID:      3,
		Turno:           "Mañana",
		Billeteras:      snap,
		FichasIniciales: 1000,
	}).Return(&domain.Shift{ID: 7, EmpleadoID: 3, Turno: "Mañana"}, nil)

	w, c := testContext(t, http.MethodPost, "/api/v1/cajas/apertura", dto.OpenShiftRequest{
		Turno:           "Mañana",
		Billeteras:      snap,
		FichasIniciales: 1000,
	})
	authenticate(c, 3)

	h.Open(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["id"])
}

func TestOpenShift_NoAuthContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewShiftHandler(mocks.NewMockShiftService(ctrl))

	w, c := testContext(t, http.MethodPost, "/api/v1/cajas/apertura", dto.OpenShiftRequest{Turno: "Tarde"})

	h.Open(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCloseShift_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockShift := mocks.NewMockShiftService(ctrl)
	h := NewShiftHandler(mockShift)

	finals := domain.WalletSnapshot{
		{Wallet: domain.Wallet{Servicio: "MP", CBU: "123", Titular: "Ana"}, Monto: 12500},
	}
	mockShift.EXPECT().Close(gomock.Any(), ports.CloseShiftRequest{
		CajaID:        7,
		EmpleadoID:    3,
		Billeteras:    finals,
		FichasFinales: 400,
		Premios:       2000,
		Bonos:         500,
		Depositos:     30000,
	}).Return(&domain.Shift{ID: 7, EmpleadoID: 3}, nil)

	w, c := testContext(t, http.MethodPost, "/api/v1/cajas/7/cierre", dto.CloseShiftRequest{
		BilleterasFinales: finals,
		FichasFinales:     400,
		Premios:           2000,
		Bonos:             500,
		Depositos:         30000,
	})
	authenticate(c, 3)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	h.Close(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetShift_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewShiftHandler(mocks.NewMockShiftService(ctrl))

	w, c := testContext(t, http.MethodGet, "/api/v1/cajas/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListShifts_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockShift := mocks.NewMockShiftService(ctrl)
	h := NewShiftHandler(mockShift)

	mockShift.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, params ports.ShiftListParams) ([]domain.Shift, error) {
			require.NotNil(t, params.Fecha)
			assert.Equal(t, "2025-08-14", *params.Fecha)
			require.NotNil(t, params.EmpleadoID)
			assert.Equal(t, int64(3), *params.EmpleadoID)
			assert.True(t, params.ClosedOnly)
			return []domain.Shift{{ID: 7}}, nil
		})

	w, c := testContext(t, http.MethodGet, "/api/v1/cajas?fecha=2025-08-14&empleado_id=3&cerradas=true", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
}

// --- Ledger Handler Tests ---

func TestRecordMovement_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().RecordMovement(gomock.Any(), ports.MovementRequest{
		CajaID:     7,
		EmpleadoID: 3,
		Tipo:       domain.MovementTransfer,
		Desde:      domain.Wallet{Servicio: "MP", CBU: "123", Titular: "Ana"},
		Hasta:      domain.Wallet{Servicio: "Uala", CBU: "456", Titular: "Ana"},
		Monto:      2000,
	}).Return(&domain.Movement{ID: 1, CajaID: 7, Tipo: domain.MovementTransfer, Monto: 2000}, nil)

	w, c := testContext(t, http.MethodPost, "/api/v1/cajas/7/movimientos", dto.MovementRequest{
		Tipo:           "transferencia",
		DesdeBilletera: dto.WalletRef{Servicio: "MP", CBU: "123", Titular: "Ana"},
		HastaBilletera: &dto.WalletRef{Servicio: "Uala", CBU: "456", Titular: "Ana"},
		Monto:          2000,
	})
	authenticate(c, 3)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	h.RecordMovement(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRecordMovement_BadTipo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl))

	w, c := testContext(t, http.MethodPost, "/api/v1/cajas/7/movimientos", map[string]interface{}{
		"tipo":            "deposito",
		"desde_billetera": map[string]string{"servicio": "MP"},
		"monto":           100,
	})
	authenticate(c, 3)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	h.RecordMovement(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordMovement_SealedShift(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().RecordMovement(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrShiftSealed())

	w, c := testContext(t, http.MethodPost, "/api/v1/cajas/7/movimientos", dto.MovementRequest{
		Tipo:           "retiro",
		DesdeBilletera: dto.WalletRef{Servicio: "MP", CBU: "123", Titular: "Ana"},
		Monto:          500,
	})
	authenticate(c, 3)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	h.RecordMovement(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRecordPrize_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().RecordPrize(gomock.Any(), ports.PrizeRequest{
		CajaID:   7,
		Servicio: "MP",
		Titular:  "Ana",
		CBU:      "123",
		Monto:    1500,
	}).Return(&domain.Prize{ID: 2, CajaID: 7, Monto: 1500}, nil)

	w, c := testContext(t, http.MethodPost, "/api/v1/cajas/7/premios", dto.PrizeRequest{
		Servicio: "MP",
		Titular:  "Ana",
		CBU:      "123",
		Monto:    1500,
	})
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	h.RecordPrize(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

// --- Reconcile Handler Tests ---

func TestReconcile_StillOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRecon := mocks.NewMockReconciliationService(ctrl)
	h := NewReconcileHandler(mockRecon)

	mockRecon.EXPECT().Reconcile(gomock.Any(), int64(7)).
		Return(nil, apperror.ErrShiftStillOpen())

	w, c := testContext(t, http.MethodGet, "/api/v1/cajas/7/descuadre", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	h.Reconcile(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProfit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRecon := mocks.NewMockReconciliationService(ctrl)
	h := NewReconcileHandler(mockRecon)

	mockRecon.EXPECT().Profit(gomock.Any(), int64(7)).Return(&domain.ProfitResult{
		CajaID:    7,
		Ganancia:  25000,
		Depositos: 50000,
		Premios:   20000,
		Bonos:     5000,
		Strategy:  "deposits",
	}, nil)

	w, c := testContext(t, http.MethodGet, "/api/v1/cajas/7/ganancia", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	h.Profit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(25000), data["ganancia"])
	assert.Equal(t, "deposits", data["strategy"])
}

func TestExpectedBalances_Sorted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRecon := mocks.NewMockReconciliationService(ctrl)
	h := NewReconcileHandler(mockRecon)

	mockRecon.EXPECT().ExpectedBalances(gomock.Any(), int64(7)).Return(map[domain.WalletKey]float64{
		{Servicio: "Uala", CBU: "456", Titular: "Ana"}: 3000,
		{Servicio: "MP", CBU: "123", Titular: "Ana"}:   8000,
	}, nil)

	w, c := testContext(t, http.MethodGet, "/api/v1/cajas/7/saldos-esperados", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	h.ExpectedBalances(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data dto.ExpectedBalancesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Billeteras, 2)
	assert.Equal(t, "MP", resp.Data.Billeteras[0].Servicio)
	assert.Equal(t, 8000.0, resp.Data.Billeteras[0].Esperado)
	assert.Equal(t, "Uala", resp.Data.Billeteras[1].Servicio)
}

// --- Analytics Handler Tests ---

func TestDailySummaries_FilterParsing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalytics := mocks.NewMockAnalyticsService(ctrl)
	h := NewAnalyticsHandler(mockAnalytics)

	mockAnalytics.EXPECT().DailySummaries(gomock.Any(), ports.SummaryFilter{
		Fecha:      "2025-08-14",
		Turno:      "Tarde",
		EmpleadoID: 3,
	}).Return(&domain.SummaryReport{
		Dias:     []domain.DailySummary{{Fecha: "2025-08-14", Turnos: 2}},
		FechaMin: "2025-08-01",
		FechaMax: "2025-08-14",
	}, nil)

	w, c := testContext(t, http.MethodGet, "/api/v1/resumen-diario?fecha=2025-08-14&turno=Tarde&empleado_id=3", nil)

	h.DailySummaries(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "2025-08-01", data["fecha_min"])
	assert.Equal(t, "2025-08-14", data["fecha_max"])
	dias := data["dias"].([]interface{})
	require.Len(t, dias, 1)
	assert.Equal(t, 2.0, dias[0].(map[string]interface{})["turnos"])
}

func TestDailySummaries_BadEmpleadoID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAnalyticsHandler(mocks.NewMockAnalyticsService(ctrl))

	w, c := testContext(t, http.MethodGet, "/api/v1/resumen-diario?empleado_id=abc", nil)

	h.DailySummaries(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Wallet Handler Tests ---

func TestCreateWallet_DefaultsOperational(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallets := mocks.NewMockWalletRepository(ctrl)
	h := NewWalletHandler(mockWallets)

	mockWallets.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, w *domain.Wallet) error {
			assert.Equal(t, domain.WalletKindOperational, w.Tipo)
			w.ID = 11
			return nil
		})

	w, c := testContext(t, http.MethodPost, "/api/v1/billeteras", dto.CreateWalletRequest{
		Servicio: "MP",
		CBU:      "123",
		Titular:  "Ana",
	})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(11), data["id"])
}

func TestGetWallet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallets := mocks.NewMockWalletRepository(ctrl)
	h := NewWalletHandler(mockWallets)

	mockWallets.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, nil)

	w, c := testContext(t, http.MethodGet, "/api/v1/billeteras/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListWallets_ByKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallets := mocks.NewMockWalletRepository(ctrl)
	h := NewWalletHandler(mockWallets)

	mockWallets.EXPECT().ListByKind(gomock.Any(), domain.WalletKindWithdrawal).
		Return([]domain.Wallet{{ID: 5, Servicio: "Retiro X", Tipo: domain.WalletKindWithdrawal}}, nil)

	w, c := testContext(t, http.MethodGet, "/api/v1/billeteras?tipo=retiro", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Router Tests ---

func TestRouter_JWTRequired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockToken := mocks.NewMockTokenService(ctrl)

	r := SetupRouter(RouterDeps{
		AuthSvc:      mocks.NewMockAuthService(ctrl),
		ShiftSvc:     mocks.NewMockShiftService(ctrl),
		LedgerSvc:    mocks.NewMockLedgerService(ctrl),
		ReconSvc:     mocks.NewMockReconciliationService(ctrl),
		AnalyticsSvc: mocks.NewMockAnalyticsService(ctrl),
		WalletRepo:   mocks.NewMockWalletRepository(ctrl),
		TokenSvc:     mockToken,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cajas", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_HealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := SetupRouter(RouterDeps{
		AuthSvc:      mocks.NewMockAuthService(ctrl),
		ShiftSvc:     mocks.NewMockShiftService(ctrl),
		LedgerSvc:    mocks.NewMockLedgerService(ctrl),
		ReconSvc:     mocks.NewMockReconciliationService(ctrl),
		AnalyticsSvc: mocks.NewMockAnalyticsService(ctrl),
		WalletRepo:   mocks.NewMockWalletRepository(ctrl),
		TokenSvc:     mocks.NewMockTokenService(ctrl),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

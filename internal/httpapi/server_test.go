package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shopintake/internal/cache"
	"github.com/vladislavdragonenkov/shopintake/internal/service/adminauth"
	"github.com/vladislavdragonenkov/shopintake/internal/service/intake"
	"github.com/vladislavdragonenkov/shopintake/internal/storage/memory"
)

const testAdminPassword = "test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	intakeService := intake.NewService(memory.NewOrderRepository(), cache.NewListingCache(), nil, nil, nil)
	gate := adminauth.NewGate(testAdminPassword, memory.NewSessionStore(), time.Hour, nil)
	return NewServer(intakeService, gate, nil, nil)
}

func doJSON(t *testing.T, server *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func login(t *testing.T, server *Server) string {
	t.Helper()

	recorder := doJSON(t, server, http.MethodPost, "/api/admin/login", "", map[string]string{
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func submitValidOrder(t *testing.T, server *Server) submitOrderResponse {
	t.Helper()

	recorder := doJSON(t, server, http.MethodPost, "/api/orders", "", submitOrderRequest{
		CustomerName:    "Anna Petrova",
		Phone:           "+7 900 000-00-00",
		District:        "Central",
		DeliveryAddress: "Lenina st. 1",
		Urgency:         "express",
		Items: []submitItemRequest{
			{ProductName: "Sneakers", Quantity: 1},
		},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp submitOrderResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestServer_SubmitOrder(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	resp := submitValidOrder(t, server)

	require.NotEmpty(t, resp.OrderID)
	require.Equal(t, intake.SubmitSuccessMessage, resp.Message)
	// 1 позиция, express: 50 + 7.5 -> 7.50 floor, fee = max(7.5, 5) = 7.50;
	// доставка max(16, 15) = 16; итого 50 + 7.50 + 16 + 50 = 123.50.
	require.Equal(t, "123.50", resp.Estimate.Total)
	require.Equal(t, "7.50", resp.Estimate.ServiceFee)
	require.Equal(t, "16.00", resp.Estimate.ShippingCost)
	require.Equal(t, "50.00", resp.Estimate.Surcharge)
}

func TestServer_SubmitOrder_ValidationError(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/api/orders", "", submitOrderRequest{
		CustomerName: "Anna",
		Items:        []submitItemRequest{{ProductName: "", Quantity: 0}},
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Contains(t, resp.Error, "phone is required")
	require.Contains(t, resp.Error, "delivery_address is required")
	require.Contains(t, resp.Error, "quantity must be greater than zero")
}

func TestServer_SubmitOrder_MalformedJSON(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{not json"))
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestServer_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/api/admin/login", "", map[string]string{
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestServer_AdminRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/orders"},
		{http.MethodPatch, "/api/admin/orders/some-id/status"},
		{http.MethodGet, "/api/admin/ping"},
		{http.MethodPost, "/api/admin/logout"},
	}

	for _, tc := range tests {
		recorder := doJSON(t, server, tc.method, tc.path, "", map[string]string{})
		require.Equalf(t, http.StatusUnauthorized, recorder.Code, "%s %s", tc.method, tc.path)
	}
}

func TestServer_AdminRoutes_RejectUnknownToken(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	recorder := doJSON(t, server, http.MethodGet, "/api/admin/orders", "forged-token", nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestServer_ListOrders(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	submitted := submitValidOrder(t, server)
	token := login(t, server)

	recorder := doJSON(t, server, http.MethodGet, "/api/admin/orders", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp listOrdersResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)

	order := resp.Orders[0]
	require.Equal(t, submitted.OrderID, order.ID)
	require.Equal(t, "pending", order.Status)
	require.Equal(t, "express", order.Urgency)
	require.Len(t, order.Items, 1)
	require.NotNil(t, order.TotalEstimatedCost)
	require.Equal(t, "123.50", *order.TotalEstimatedCost)
}

func TestServer_UpdateStatus(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	submitted := submitValidOrder(t, server)
	token := login(t, server)

	recorder := doJSON(t, server, http.MethodPatch,
		"/api/admin/orders/"+submitted.OrderID+"/status", token,
		updateStatusRequest{Status: "shipped"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp updateStatusResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Equal(t, "shipped", resp.Status)

	listRec := doJSON(t, server, http.MethodGet, "/api/admin/orders", token, nil)
	require.Equal(t, http.StatusOK, listRec.Code)

	var listResp listOrdersResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listResp))
	require.Equal(t, "shipped", listResp.Orders[0].Status)
}

func TestServer_UpdateStatus_UnknownStatus(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	submitted := submitValidOrder(t, server)
	token := login(t, server)

	recorder := doJSON(t, server, http.MethodPatch,
		"/api/admin/orders/"+submitted.OrderID+"/status", token,
		updateStatusRequest{Status: "misplaced"})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestServer_UpdateStatus_UnknownOrder(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	token := login(t, server)

	recorder := doJSON(t, server, http.MethodPatch,
		"/api/admin/orders/missing-id/status", token,
		updateStatusRequest{Status: "shipped"})
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestServer_Ping(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	token := login(t, server)

	recorder := doJSON(t, server, http.MethodGet, "/api/admin/ping", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestServer_Logout_RevokesToken(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	token := login(t, server)

	recorder := doJSON(t, server, http.MethodPost, "/api/admin/logout", token, nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	listRec := doJSON(t, server, http.MethodGet, "/api/admin/orders", token, nil)
	require.Equal(t, http.StatusUnauthorized, listRec.Code)
}

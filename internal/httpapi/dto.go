package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shopintake/internal/domain"
	"github.com/vladislavdragonenkov/shopintake/internal/service/intake"
)

// Денежные суммы сериализуются строками с двумя знаками после запятой.
// Округление происходит только здесь, на границе API.

type submitItemRequest struct {
	ProductName string `json:"product_name"`
	ProductURL  string `json:"product_url,omitempty"`
	Quantity    int32  `json:"quantity"`
	Notes       string `json:"notes,omitempty"`
}

type submitOrderRequest struct {
	CustomerName    string              `json:"customer_name"`
	Phone           string              `json:"phone"`
	District        string              `json:"district"`
	DeliveryAddress string              `json:"delivery_address"`
	Urgency         string              `json:"urgency,omitempty"`
	Items           []submitItemRequest `json:"items"`
}

type estimateResponse struct {
	ItemsCost    string `json:"items_cost"`
	ServiceFee   string `json:"service_fee"`
	ShippingCost string `json:"shipping_cost"`
	Surcharge    string `json:"surcharge"`
	Total        string `json:"total"`
}

type submitOrderResponse struct {
	OrderID  string           `json:"order_id"`
	Message  string           `json:"message"`
	Estimate estimateResponse `json:"estimate"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type orderItemResponse struct {
	ID          string `json:"id"`
	ProductName string `json:"product_name"`
	ProductURL  string `json:"product_url,omitempty"`
	Quantity    int32  `json:"quantity"`
	Notes       string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID              string `json:"id"`
	CustomerName    string `json:"customer_name"`
	Phone           string `json:"phone"`
	District        string `json:"district"`
	DeliveryAddress string `json:"delivery_address"`
	Urgency         string `json:"urgency"`
	Status          string `json:"status"`
	// Стоимостные поля отсутствуют в ответе, если в строке они NULL:
	// отсутствие значения не равно нулю.
	TotalEstimatedCost *string             `json:"total_estimated_cost,omitempty"`
	ServiceFee         *string             `json:"service_fee,omitempty"`
	ShippingCost       *string             `json:"shipping_cost,omitempty"`
	Items              []orderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"created_at"`
}

type listOrdersResponse struct {
	Orders []orderResponse `json:"orders"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toSubmitRequest(req submitOrderRequest) intake.SubmitRequest {
	items := make([]intake.SubmitItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, intake.SubmitItem{
			ProductName: item.ProductName,
			ProductURL:  item.ProductURL,
			Quantity:    item.Quantity,
			Notes:       item.Notes,
		})
	}
	return intake.SubmitRequest{
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		District:        req.District,
		DeliveryAddress: req.DeliveryAddress,
		Urgency:         req.Urgency,
		Items:           items,
	}
}

func toEstimateResponse(estimate domain.CostEstimate) estimateResponse {
	return estimateResponse{
		ItemsCost:    estimate.ItemsCost.StringFixed(2),
		ServiceFee:   estimate.ServiceFee.StringFixed(2),
		ShippingCost: estimate.ShippingCost.StringFixed(2),
		Surcharge:    estimate.Surcharge.StringFixed(2),
		Total:        estimate.Total.StringFixed(2),
	}
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:          item.ID,
			ProductName: item.ProductName,
			ProductURL:  item.ProductURL,
			Quantity:    item.Quantity,
			Notes:       item.Notes,
		})
	}

	return orderResponse{
		ID:                 order.ID,
		CustomerName:       order.CustomerName,
		Phone:              order.Phone,
		District:           order.District,
		DeliveryAddress:    order.DeliveryAddress,
		Urgency:            string(order.Urgency),
		Status:             string(order.Status),
		TotalEstimatedCost: moneyString(order.TotalEstimatedCost),
		ServiceFee:         moneyString(order.ServiceFee),
		ShippingCost:       moneyString(order.ShippingCost),
		Items:              items,
		CreatedAt:          order.CreatedAt,
	}
}

func moneyString(value decimal.NullDecimal) *string {
	if !value.Valid {
		return nil
	}
	s := value.Decimal.StringFixed(2)
	return &s
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа байера.
// Переходы не ограничены: персонал может выставить любой статус из перечисления.
type OrderStatus string

const (
	// OrderStatusPending — заявка принята, расчёт стоимости выполнен, ждёт обработки.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing — заявка взята в работу персоналом.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusPurchased — товары выкуплены у продавца.
	OrderStatusPurchased OrderStatus = "purchased"
	// OrderStatusShipped — посылка отправлена клиенту.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus проверяет строку на принадлежность перечислению статусов.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusPurchased,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", ErrUnknownStatus
	}
}

// Urgency — выбранная клиентом скорость доставки, влияет на надбавку к стоимости.
type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	UrgencyFast     Urgency = "fast"
	UrgencyExpress  Urgency = "express"
)

// ParseUrgency разбирает срочность из пользовательского ввода.
// Пустая строка трактуется как standard, незнакомое значение отклоняется.
func ParseUrgency(s string) (Urgency, error) {
	switch Urgency(s) {
	case "":
		return UrgencyStandard, nil
	case UrgencyStandard, UrgencyFast, UrgencyExpress:
		return Urgency(s), nil
	default:
		return "", ErrUnknownUrgency
	}
}

// OrderItem представляет одну запрошенную товарную позицию заказа.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	ID string
	// ProductName — название товара, обязательное поле.
	ProductName string
	// ProductURL — ссылка на товар у продавца; пустая строка хранится как NULL.
	ProductURL string
	// Quantity — количество единиц, строго положительное.
	Quantity int32
	// Notes — произвольный комментарий клиента, опционально.
	Notes string
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time
}

// Order агрегирует заявку клиента, расчётную стоимость и статус исполнения.
// Стоимостные поля рассчитываются один раз при создании и далее не пересчитываются.
type Order struct {
	ID              string
	CustomerName    string
	Phone           string
	District        string
	DeliveryAddress string
	Urgency         Urgency
	Status          OrderStatus
	// У старых или частично записанных строк стоимость может отсутствовать,
	// поэтому поля nullable: отсутствие не равно нулю.
	TotalEstimatedCost decimal.NullDecimal
	ServiceFee         decimal.NullDecimal
	ShippingCost       decimal.NullDecimal
	Items              []OrderItem
	CreatedAt          time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerName == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if o.Phone == "" {
		errs = append(errs, ErrPhoneRequired)
	}
	if o.District == "" {
		errs = append(errs, ErrDistrictRequired)
	}
	if o.DeliveryAddress == "" {
		errs = append(errs, ErrDeliveryAddressRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if _, err := ParseUrgency(string(o.Urgency)); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseOrderStatus(string(o.Status)); err != nil {
		errs = append(errs, err)
	}

	for _, item := range o.Items {
		if item.ProductName == "" {
			errs = append(errs, ErrItemNameRequired)
		}
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQuantityInvalid)
		}
	}

	if o.TotalEstimatedCost.Valid && o.TotalEstimatedCost.Decimal.IsNegative() {
		errs = append(errs, ErrCostNegative)
	}
	if o.ServiceFee.Valid && o.ServiceFee.Decimal.IsNegative() {
		errs = append(errs, ErrCostNegative)
	}
	if o.ShippingCost.Valid && o.ShippingCost.Decimal.IsNegative() {
		errs = append(errs, ErrCostNegative)
	}

	return errs
}

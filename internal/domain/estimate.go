package domain

import "github.com/shopspring/decimal"

// Константы оценки стоимости. Реального прайс-листа нет, поэтому стоимость
// товаров и вес считаются по фиксированным заглушкам за позицию.
var (
	placeholderUnitCost = decimal.NewFromInt(50)
	serviceFeeRate      = decimal.RequireFromString("0.15")
	minServiceFee       = decimal.NewFromInt(5)
	placeholderWeightKg = decimal.NewFromInt(2)
	shippingRatePerKg   = decimal.NewFromInt(8)
	minShippingCost     = decimal.NewFromInt(15)
	fastSurcharge       = decimal.NewFromInt(20)
	expressSurcharge    = decimal.NewFromInt(50)
)

// CostEstimate — разбивка предварительной стоимости заказа.
// Значения хранятся без округления; до двух знаков форматирует только API-слой.
type CostEstimate struct {
	ItemsCost    decimal.Decimal
	ServiceFee   decimal.Decimal
	ShippingCost decimal.Decimal
	Surcharge    decimal.Decimal
	Total        decimal.Decimal
}

// EstimateCost считает предварительную стоимость как чистую функцию от числа
// позиций и срочности. lineCount — количество строк заказа, не сумма quantity.
func EstimateCost(lineCount int, urgency Urgency) (CostEstimate, error) {
	if lineCount < 1 {
		return CostEstimate{}, ErrItemsRequired
	}

	lines := decimal.NewFromInt(int64(lineCount))

	itemsCost := lines.Mul(placeholderUnitCost)
	serviceFee := decimal.Max(itemsCost.Mul(serviceFeeRate), minServiceFee)
	shippingCost := decimal.Max(lines.Mul(placeholderWeightKg).Mul(shippingRatePerKg), minShippingCost)

	var surcharge decimal.Decimal
	switch urgency {
	case UrgencyFast:
		surcharge = fastSurcharge
	case UrgencyExpress:
		surcharge = expressSurcharge
	case UrgencyStandard:
		surcharge = decimal.Zero
	default:
		return CostEstimate{}, ErrUnknownUrgency
	}

	return CostEstimate{
		ItemsCost:    itemsCost,
		ServiceFee:   serviceFee,
		ShippingCost: shippingCost,
		Surcharge:    surcharge,
		Total:        itemsCost.Add(serviceFee).Add(shippingCost).Add(surcharge),
	}, nil
}

package domain_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shopintake/internal/domain"
)

func mustEstimate(t *testing.T, lines int, urgency domain.Urgency) domain.CostEstimate {
	t.Helper()
	est, err := domain.EstimateCost(lines, urgency)
	if err != nil {
		t.Fatalf("EstimateCost(%d, %s): %v", lines, urgency, err)
	}
	return est
}

func TestEstimateCost_SingleItemFloors(t *testing.T) {
	// N=1: items=50, fee=max(7.5, 5)=7.5, shipping=max(16, 15)=16, total=73.5.
	est := mustEstimate(t, 1, domain.UrgencyStandard)

	if !est.ItemsCost.Equal(decimal.NewFromInt(50)) {
		t.Errorf("items cost: expected 50, got %s", est.ItemsCost)
	}
	if !est.ServiceFee.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("service fee: expected 7.5, got %s", est.ServiceFee)
	}
	if !est.ShippingCost.Equal(decimal.NewFromInt(16)) {
		t.Errorf("shipping: expected 16, got %s", est.ShippingCost)
	}
	if !est.Surcharge.Equal(decimal.Zero) {
		t.Errorf("surcharge: expected 0, got %s", est.Surcharge)
	}
	if !est.Total.Equal(decimal.RequireFromString("73.5")) {
		t.Errorf("total: expected 73.5, got %s", est.Total)
	}
}

func TestEstimateCost_Formula(t *testing.T) {
	// total(standard, N) == N*50 + max(N*50*0.15, 5) + max(N*2*8, 15)
	for n := 1; n <= 10; n++ {
		est := mustEstimate(t, n, domain.UrgencyStandard)

		items := decimal.NewFromInt(int64(n * 50))
		fee := decimal.Max(items.Mul(decimal.RequireFromString("0.15")), decimal.NewFromInt(5))
		shipping := decimal.Max(decimal.NewFromInt(int64(n*2*8)), decimal.NewFromInt(15))
		want := items.Add(fee).Add(shipping)

		if !est.Total.Equal(want) {
			t.Errorf("N=%d: expected total %s, got %s", n, want, est.Total)
		}
	}
}

func TestEstimateCost_UrgencySurchargeAdditivity(t *testing.T) {
	cases := []struct {
		urgency   domain.Urgency
		surcharge int64
	}{
		{domain.UrgencyStandard, 0},
		{domain.UrgencyFast, 20},
		{domain.UrgencyExpress, 50},
	}

	for _, tc := range cases {
		t.Run(string(tc.urgency), func(t *testing.T) {
			for n := 1; n <= 5; n++ {
				base := mustEstimate(t, n, domain.UrgencyStandard)
				est := mustEstimate(t, n, tc.urgency)

				want := base.Total.Add(decimal.NewFromInt(tc.surcharge))
				if !est.Total.Equal(want) {
					t.Errorf("N=%d: expected total %s, got %s", n, want, est.Total)
				}
				if !est.Surcharge.Equal(decimal.NewFromInt(tc.surcharge)) {
					t.Errorf("N=%d: expected surcharge %d, got %s", n, tc.surcharge, est.Surcharge)
				}
			}
		})
	}
}

func TestEstimateCost_NonNegative(t *testing.T) {
	for n := 1; n <= 20; n++ {
		for _, urgency := range []domain.Urgency{domain.UrgencyStandard, domain.UrgencyFast, domain.UrgencyExpress} {
			est := mustEstimate(t, n, urgency)
			for name, v := range map[string]decimal.Decimal{
				"items":     est.ItemsCost,
				"fee":       est.ServiceFee,
				"shipping":  est.ShippingCost,
				"surcharge": est.Surcharge,
				"total":     est.Total,
			} {
				if v.IsNegative() {
					t.Errorf("N=%d urgency=%s: %s is negative: %s", n, urgency, name, v)
				}
			}
		}
	}
}

func TestEstimateCost_Rejects(t *testing.T) {
	if _, err := domain.EstimateCost(0, domain.UrgencyStandard); err != domain.ErrItemsRequired {
		t.Errorf("expected ErrItemsRequired for zero lines, got %v", err)
	}
	if _, err := domain.EstimateCost(-1, domain.UrgencyStandard); err != domain.ErrItemsRequired {
		t.Errorf("expected ErrItemsRequired for negative lines, got %v", err)
	}
	if _, err := domain.EstimateCost(1, domain.Urgency("tomorrow")); err != domain.ErrUnknownUrgency {
		t.Errorf("expected ErrUnknownUrgency, got %v", err)
	}
}

func ExampleEstimateCost() {
	est, _ := domain.EstimateCost(2, domain.UrgencyFast)
	fmt.Println(est.Total.StringFixed(2))
	// Output: 167.00
}

package models

import (
	"testing"
)

func TestHolding_PricedAndCostBasis(t *testing.T) {
	price := 70.0
	h := Holding{Symbol: "A", Quantity: 3, AverageCost: 50}
	if h.Priced() {
		t.Error("holding without a quote reported as priced")
	}
	if got := h.CostBasis(); got != 150 {
		t.Errorf("CostBasis() = %v, want 150", got)
	}

	h.CurrentPrice = &price
	if !h.Priced() {
		t.Error("holding with a quote reported as unpriced")
	}
}

func TestTransactionType_Valid(t *testing.T) {
	if !TransactionBuy.Valid() || !TransactionSell.Valid() {
		t.Error("BUY and SELL must be valid")
	}
	if TransactionType("DIVIDEND").Valid() {
		t.Error("unknown transaction type reported valid")
	}
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountJSON(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","amount":10}`), &p))
	n, ok := p.Amount.Number()
	assert.True(t, ok)
	assert.Equal(t, 10.0, n)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"b","amount":"800 Robux"}`), &p))
	assert.True(t, p.Amount.IsText())
	assert.Equal(t, "800 Robux", p.Amount.String())

	out, err := json.Marshal(TextAmount("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(out))

	out, err = json.Marshal(NumberAmount(2.5))
	require.NoError(t, err)
	assert.Equal(t, `2.5`, string(out))

	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
	require.NoError(t, json.Unmarshal([]byte(`null`), &a))
	assert.Equal(t, "0", a.String())
}

func TestRole(t *testing.T) {
	assert.True(t, RoleMainAdmin.Valid())
	assert.False(t, Role("root").Valid())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleMainAdmin.IsAdmin())
	assert.False(t, RoleUser.IsAdmin())
}

func TestUserPublicDropsHash(t *testing.T) {
	u := User{ID: "U-1", Username: "neo", Email: "n@x.io", PasswordHash: "secret", Role: RoleUser}
	out, err := json.Marshal(u.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
	assert.Contains(t, string(out), `"username":"neo"`)
}

func TestSessionReadsLegacyUserObject(t *testing.T) {
	var s Session
	legacy := `{"id":"U-9","username":"neo","email":"n@x.io","passwordHash":"p","role":"user","createdAt":1}`
	require.NoError(t, json.Unmarshal([]byte(legacy), &s))
	assert.Equal(t, "U-9", s.UserID)
}

func TestEvent(t *testing.T) {
	e := Event{ApplicableProductIDs: []string{"a", "b"}}
	assert.True(t, e.AppliesTo("b"))
	assert.False(t, e.AppliesTo("c"))
	assert.Equal(t, 0.0, e.Discount())

	pct := 15.0
	e.DiscountPercentage = &pct
	assert.Equal(t, 15.0, e.Discount())
}

func TestEventKeepsEmptyProductList(t *testing.T) {
	raw := `{"id":"EVT-1","name":"Eid","targetDate":1735689600000,"active":true,"applicableProductIds":[]}`
	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.NotNil(t, e.ApplicableProductIDs)
	assert.Empty(t, e.ApplicableProductIDs)

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"applicableProductIds":[]`)
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderDone, false},
		{OrderProcessing, OrderDone, true},
		{OrderProcessing, OrderCancelled, true},
		{OrderProcessing, OrderPending, false},
		{OrderDone, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderDone, OrderDone, true},
		{OrderPending, OrderStatus("Shipped"), false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to))
		})
	}

	assert.True(t, OrderDone.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
	assert.False(t, OrderPending.IsTerminal())
	assert.False(t, OrderStatus("pending").Valid())
}

func TestPaymentMethodAndProductType(t *testing.T) {
	assert.True(t, PaymentBKash.Valid())
	assert.False(t, PaymentMethod("bkash").Valid())
	assert.True(t, ProductGiftCard.Valid())
	assert.False(t, ProductType("coins").Valid())
}

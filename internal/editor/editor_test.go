package editor_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bizpos-backend/internal/domain"
	"bizpos-backend/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func newTree() *domain.BusinessSettings {
	return domain.DefaultBusinessSettings(domain.IndustryRetail, "USD")
}

// deepCopy snapshots a tree so tests can check the input was left alone.
func deepCopy(t *testing.T, s *domain.BusinessSettings) *domain.BusinessSettings {
	t.Helper()
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	var out domain.BusinessSettings
	require.NoError(t, json.Unmarshal(raw, &out))
	return &out
}

func TestSetField_UpdatesOnlyTargetField(t *testing.T) {
	tree := newTree()
	before := deepCopy(t, tree)

	out, err := editor.SetField(tree, "inventory", "lowStockThreshold", 12)
	require.NoError(t, err)

	assert.Equal(t, 12, out.Inventory.LowStockThreshold)
	assert.Equal(t, 5, tree.Inventory.LowStockThreshold, "input tree must not change")
	assert.Equal(t, before, deepCopy(t, tree))
	assert.NotSame(t, tree, out)
	assert.NotSame(t, tree.Inventory, out.Inventory)
}

func TestSetField_Idempotent(t *testing.T) {
	tree := newTree()

	once, err := editor.SetField(tree, "general.localization", "timezone", "Asia/Jakarta")
	require.NoError(t, err)
	twice, err := editor.SetField(once, "general.localization", "timezone", "Asia/Jakarta")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestSetField_SectionIsolation(t *testing.T) {
	tree := newTree()

	out, err := editor.SetField(tree, "payment", "splitPayments", true)
	require.NoError(t, err)

	assert.True(t, out.Payment.SplitPayments)
	assert.Same(t, tree.General, out.General)
	assert.Same(t, tree.POSTerminal, out.POSTerminal)
	assert.Same(t, tree.Inventory, out.Inventory)
	assert.Same(t, tree.Pricing, out.Pricing)
	assert.Same(t, tree.Customer, out.Customer)
	assert.Same(t, tree.Employee, out.Employee)
	assert.Same(t, tree.Taxation, out.Taxation)
	assert.Same(t, tree.Reporting, out.Reporting)
	assert.Same(t, tree.Integration, out.Integration)
	assert.Same(t, tree.Security, out.Security)
}

func TestSetField_NestedRecordSharesSiblingSlices(t *testing.T) {
	tree := newTree()

	out, err := editor.SetField(tree, "general.currency", "symbolPosition", "after")
	require.NoError(t, err)

	assert.Equal(t, "after", out.General.Currency.SymbolPosition)
	assert.Equal(t, "before", tree.General.Currency.SymbolPosition)
	// the locations slice was not on the edited path
	assert.Same(t, &tree.General.Locations[0], &out.General.Locations[0])
}

func TestSetField_CoercesDecodedJSONValues(t *testing.T) {
	tree := newTree()

	var payload struct {
		Value any `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"value": 25}`), &payload))

	out, err := editor.SetField(tree, "security.session", "timeoutMinutes", payload.Value)
	require.NoError(t, err)
	assert.Equal(t, 25, out.Security.Session.TimeoutMinutes)

	out, err = editor.SetField(out, "general.businessProfile", "industryType", "restaurant")
	require.NoError(t, err)
	assert.Equal(t, domain.IndustryRestaurant, out.General.BusinessProfile.IndustryType)

	out, err = editor.SetField(out, "payment", "tipping", map[string]any{
		"enabled":     true,
		"suggestions": []any{5, 10},
		"allowCustom": false,
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 10}, out.Payment.Tipping.Suggestions)
}

func TestSetField_DoesNotAliasCallerSlices(t *testing.T) {
	tree := newTree()
	suggestions := []float64{1, 2, 3}

	out, err := editor.SetField(tree, "payment.tipping", "suggestions", suggestions)
	require.NoError(t, err)

	suggestions[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, out.Payment.Tipping.Suggestions)
}

func TestSetField_Errors(t *testing.T) {
	tree := newTree()

	tests := []struct {
		name    string
		section string
		field   string
		value   any
		want    error
	}{
		{name: "unknown section", section: "loyalty", field: "enabled", value: true, want: editor.ErrInvalidSectionPath},
		{name: "empty section", section: "", field: "enabled", value: true, want: editor.ErrInvalidSectionPath},
		{name: "absent sector section", section: "restaurant", field: "tables", value: nil, want: editor.ErrInvalidSectionPath},
		{name: "path through a scalar", section: "inventory.trackStock", field: "x", value: 1, want: editor.ErrInvalidSectionPath},
		{name: "unknown field", section: "inventory", field: "colour", value: "red", want: editor.ErrUnknownField},
		{name: "wrong type", section: "inventory", field: "trackStock", value: "yes", want: editor.ErrTypeMismatch},
		{name: "fractional int", section: "inventory", field: "reorderPoint", value: 2.5, want: editor.ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := editor.SetField(tree, tt.section, tt.field, tt.value)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			var pe *editor.PathError
			assert.ErrorAs(t, err, &pe)
		})
	}

	_, err := editor.SetField(nil, "general", "x", 1)
	assert.ErrorIs(t, err, editor.ErrInvalidSectionPath)
}

func TestAddListItem_GeneratesID(t *testing.T) {
	ed := editor.New(editor.WithClock(fixedClock()))
	tree := newTree()

	out, id, err := ed.AddListItem(tree, "pricing", "priceLevels", domain.PriceLevel{
		ID:      "ignored",
		Name:    "Wholesale",
		Type:    "percentage",
		Value:   -15,
		Enabled: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "price-level-1717243200000", id)
	require.Len(t, out.Pricing.PriceLevels, 2)
	assert.Equal(t, id, out.Pricing.PriceLevels[1].ID)
	assert.Equal(t, "Wholesale", out.Pricing.PriceLevels[1].Name)
	assert.Len(t, tree.Pricing.PriceLevels, 1, "input list must not grow")
}

func TestAddListItem_SameMillisecondGetsSuffix(t *testing.T) {
	ed := editor.New(editor.WithClock(fixedClock()))
	tree := newTree()

	tree, first, err := ed.AddListItem(tree, "security.ipWhitelist", "addresses", map[string]any{"address": "10.0.0.1"})
	require.NoError(t, err)
	tree, second, err := ed.AddListItem(tree, "security.ipWhitelist", "addresses", map[string]any{"address": "10.0.0.2"})
	require.NoError(t, err)

	assert.Equal(t, "ip-1717243200000", first)
	assert.Equal(t, "ip-1717243200000-2", second)
	assert.Len(t, tree.Security.IPWhitelist.Addresses, 2)
}

func TestAddListItem_Errors(t *testing.T) {
	tree := newTree()

	_, _, err := editor.AddListItem(tree, "pricing", "tiers", domain.LoyaltyTier{})
	assert.ErrorIs(t, err, editor.ErrInvalidSectionPath)

	_, _, err = editor.AddListItem(tree, "pricing", "roundingRule", "x")
	assert.ErrorIs(t, err, editor.ErrNotAList)

	_, _, err = editor.AddListItem(tree, "payment.tipping", "suggestions", 5)
	assert.ErrorIs(t, err, editor.ErrNotAList)

	_, _, err = editor.AddListItem(tree, "pricing", "priceLevels", map[string]any{"colour": "red"})
	assert.ErrorIs(t, err, editor.ErrTypeMismatch)
}

func TestAddRemoveListItem_Inverse(t *testing.T) {
	lists := []struct {
		section string
		list    string
		item    any
	}{
		{section: "pricing", list: "priceLevels", item: domain.PriceLevel{Name: "VIP", Type: "fixed", Value: 2}},
		{section: "general", list: "locations", item: domain.Location{Name: "Branch"}},
		{section: "reporting", list: "scheduledReports", item: domain.ScheduledReport{Name: "Daily sales"}},
	}
	for _, l := range lists {
		t.Run(l.section+"."+l.list, func(t *testing.T) {
			tree := newTree()
			added, id, err := editor.AddListItem(tree, l.section, l.list, l.item)
			require.NoError(t, err)

			removed, err := editor.RemoveListItem(added, l.section, l.list, id)
			require.NoError(t, err)
			assert.Equal(t, tree, removed)
		})
	}
}

func TestRemoveListItem_MissingIDReturnsInput(t *testing.T) {
	tree := newTree()

	out, err := editor.RemoveListItem(tree, "payment", "methods", "payment-method-nope")
	require.NoError(t, err)
	assert.Same(t, tree, out)

	_, err = editor.RemoveListItem(tree, "payment", "nope", "x")
	assert.ErrorIs(t, err, editor.ErrInvalidSectionPath)
}

func TestRemoveListItem_KeepsOrder(t *testing.T) {
	tree := newTree()
	tree.Payment.Methods = append(tree.Payment.Methods, domain.PaymentMethod{ID: "payment-method-qris", Name: "QRIS"})

	out, err := editor.RemoveListItem(tree, "payment", "methods", "payment-method-card")
	require.NoError(t, err)

	require.Len(t, out.Payment.Methods, 2)
	assert.Equal(t, "payment-method-cash", out.Payment.Methods[0].ID)
	assert.Equal(t, "payment-method-qris", out.Payment.Methods[1].ID)
	assert.Len(t, tree.Payment.Methods, 3)
}

func TestSetExclusiveFlag_MainLocation(t *testing.T) {
	tree := newTree()
	tree.General.Locations = []domain.Location{
		{ID: "loc-1", IsMainLocation: true},
		{ID: "loc-2", IsMainLocation: false},
	}

	out, err := editor.SetExclusiveFlag(tree, "general", "locations", "loc-2", "isMainLocation")
	require.NoError(t, err)

	assert.False(t, out.General.Locations[0].IsMainLocation)
	assert.True(t, out.General.Locations[1].IsMainLocation)
	assert.True(t, tree.General.Locations[0].IsMainLocation, "input list must not change")
}

func TestSetExclusiveFlag_ExactlyOneFlagged(t *testing.T) {
	tree := newTree()
	tree.Payment.Methods = []domain.PaymentMethod{
		{ID: "a", IsDefault: true},
		{ID: "b", IsDefault: true},
		{ID: "c"},
		{ID: "d", IsDefault: true},
	}

	for _, id := range []string{"a", "b", "c", "d"} {
		out, err := editor.SetExclusiveFlag(tree, "payment", "methods", id, "isDefault")
		require.NoError(t, err)
		flagged := 0
		for _, m := range out.Payment.Methods {
			if m.IsDefault {
				flagged++
				assert.Equal(t, id, m.ID)
			}
		}
		assert.Equal(t, 1, flagged)
	}
}

func TestSetExclusiveFlag_Errors(t *testing.T) {
	tree := newTree()

	_, err := editor.SetExclusiveFlag(tree, "payment", "methods", "missing", "isDefault")
	assert.ErrorIs(t, err, editor.ErrItemNotFound)

	_, err = editor.SetExclusiveFlag(tree, "payment", "methods", "payment-method-cash", "name")
	assert.ErrorIs(t, err, editor.ErrTypeMismatch)

	_, err = editor.SetExclusiveFlag(tree, "payment", "methods", "payment-method-cash", "isMain")
	assert.ErrorIs(t, err, editor.ErrUnknownField)

	_, err = editor.SetExclusiveFlag(tree, "hotel", "roomTypes", "x", "isDefault")
	assert.ErrorIs(t, err, editor.ErrInvalidSectionPath)
}

func TestUpdatePriceLevel(t *testing.T) {
	tree := newTree()
	tree.Pricing.PriceLevels = []domain.PriceLevel{
		{ID: "p1", Name: "Retail", Type: "percentage", Value: 10, Enabled: true},
	}
	before := deepCopy(t, tree)

	out, err := editor.New().UpdatePriceLevel(tree, "p1", "value", 15)
	require.NoError(t, err)

	assert.Equal(t, 15.0, out.Pricing.PriceLevels[0].Value)
	assert.Equal(t, "Retail", out.Pricing.PriceLevels[0].Name)

	// only that one value differs
	expected := deepCopy(t, before)
	expected.Pricing.PriceLevels[0].Value = 15
	assert.Equal(t, expected, deepCopy(t, out))
	assert.Equal(t, before, deepCopy(t, tree))
}

func TestUpdateListItem_Errors(t *testing.T) {
	tree := newTree()

	_, err := editor.UpdateListItem(tree, "pricing", "priceLevels", "price-level-retail", "id", "other")
	assert.ErrorIs(t, err, editor.ErrReadOnlyField)

	_, err = editor.UpdateListItem(tree, "pricing", "priceLevels", "missing", "name", "x")
	assert.ErrorIs(t, err, editor.ErrItemNotFound)

	_, err = editor.UpdateListItem(tree, "pricing", "priceLevels", "price-level-retail", "value", "high")
	assert.ErrorIs(t, err, editor.ErrTypeMismatch)
}

func TestGet(t *testing.T) {
	tree := newTree()

	v, err := editor.Get(tree, "general.currency.code")
	require.NoError(t, err)
	assert.Equal(t, "USD", v)

	v, err = editor.Get(tree, "payment")
	require.NoError(t, err)
	assert.Same(t, tree.Payment, v)

	_, err = editor.Get(tree, "hotel")
	assert.ErrorIs(t, err, editor.ErrInvalidSectionPath)

	_, err = editor.Get(tree, "general.nothing")
	assert.ErrorIs(t, err, editor.ErrInvalidSectionPath)
}

func TestAddRemoveListItem_InverseForDecodedEmptyList(t *testing.T) {
	raw, err := json.Marshal(newTree())
	require.NoError(t, err)
	var decoded domain.BusinessSettings
	require.NoError(t, json.Unmarshal(raw, &decoded))
	decoded.Integration.Webhooks = []domain.Webhook{}

	tree := editor.Normalize(&decoded)
	assert.Nil(t, tree.Integration.Webhooks)
	assert.Empty(t, decoded.Integration.Webhooks, "input left alone")
	assert.NotNil(t, decoded.Integration.Webhooks)

	added, id, err := editor.AddListItem(tree, "integration", "webhooks", domain.Webhook{URL: "https://hooks.example.com/pos"})
	require.NoError(t, err)
	removed, err := editor.RemoveListItem(added, "integration", "webhooks", id)
	require.NoError(t, err)
	assert.Equal(t, tree, removed)
}

func TestNormalize_SharesUntouchedSections(t *testing.T) {
	tree := newTree()
	assert.Same(t, tree, editor.Normalize(tree))

	in := *tree
	integration := *tree.Integration
	integration.Webhooks = []domain.Webhook{}
	in.Integration = &integration

	out := editor.Normalize(&in)
	assert.NotSame(t, &in, out)
	assert.Same(t, in.Pricing, out.Pricing)
	assert.Same(t, in.General, out.General)
	assert.Nil(t, out.Integration.Webhooks)
	assert.Nil(t, editor.Normalize(nil))
}

func TestAddListItem_DoesNotAliasNestedSlices(t *testing.T) {
	recipients := []string{"owner@example.com"}
	out, _, err := editor.AddListItem(newTree(), "reporting", "scheduledReports", domain.ScheduledReport{
		Name:       "Daily sales",
		Type:       "sales",
		Frequency:  "daily",
		Format:     "csv",
		Recipients: recipients,
	})
	require.NoError(t, err)

	recipients[0] = "changed@example.com"
	reports := out.Reporting.ScheduledReports
	assert.Equal(t, "owner@example.com", reports[len(reports)-1].Recipients[0])
}

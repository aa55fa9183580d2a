// Package validation checks a settings tree between edit and persist.
//
// Validate never fails; it returns the list of violations found. Errors mark
// values the POS cannot operate with (negative amounts, rates above 100%,
// unknown enum values, broken list ids). Warnings mark conventions the data
// layer does not enforce, such as a single main location.
package validation

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"bizpos-backend/internal/domain"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ErrInvalidSettings is matched by *Error.
var ErrInvalidSettings = errors.New("settings validation failed")

type Violation struct {
	Path     string   `json:"path"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Value    any      `json:"value,omitempty"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

type Violations []Violation

func (vs Violations) HasErrors() bool {
	for _, v := range vs {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity violations.
func (vs Violations) Errors() Violations {
	var out Violations
	for _, v := range vs {
		if v.Severity == SeverityError {
			out = append(out, v)
		}
	}
	return out
}

// Warnings returns only the warning-severity violations.
func (vs Violations) Warnings() Violations {
	var out Violations
	for _, v := range vs {
		if v.Severity == SeverityWarning {
			out = append(out, v)
		}
	}
	return out
}

// Error wraps the violations that blocked a save.
type Error struct {
	Violations Violations
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.String())
	}
	if len(msgs) == 1 {
		return "settings validation failed: " + msgs[0]
	}
	return fmt.Sprintf("settings validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalidSettings
}

type collector struct {
	out Violations
}

func (c *collector) errorf(path string, value any, format string, args ...any) {
	c.out = append(c.out, Violation{Path: path, Message: fmt.Sprintf(format, args...), Severity: SeverityError, Value: value})
}

func (c *collector) warnf(path string, value any, format string, args ...any) {
	c.out = append(c.out, Violation{Path: path, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning, Value: value})
}

func (c *collector) percent(path string, v float64) {
	if v < 0 || v > 100 {
		c.errorf(path, v, "must be between 0 and 100")
	}
}

func (c *collector) nonNegative(path string, v float64) {
	if v < 0 {
		c.errorf(path, v, "must be non-negative")
	}
}

func (c *collector) between(path string, v, lo, hi int) {
	if v < lo || v > hi {
		c.errorf(path, v, "must be between %d and %d", lo, hi)
	}
}

func (c *collector) oneOf(path, v string, allowed ...string) {
	if v == "" {
		return
	}
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	c.errorf(path, v, "must be one of %s", strings.Join(allowed, ", "))
}

// ids checks that every item id in a list is present and unique.
func (c *collector) ids(path string, ids []string) {
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			c.errorf(fmt.Sprintf("%s[%d].id", path, i), id, "is required")
			continue
		}
		if _, dup := seen[id]; dup {
			c.errorf(fmt.Sprintf("%s[%s].id", path, id), id, "is duplicated")
		}
		seen[id] = struct{}{}
	}
}

// exclusive warns when more than one item of an exclusive list is flagged.
func (c *collector) exclusive(path string, flags []bool) {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	if n > 1 {
		c.warnf(path, n, "%d items are flagged, expected at most one", n)
	}
}

var (
	currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)
	clockTime    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// Validate returns every violation found in s.
func Validate(s *domain.BusinessSettings) Violations {
	c := &collector{}
	if s == nil {
		c.errorf("", nil, "settings are required")
		return c.out
	}
	for _, name := range s.MissingSections() {
		c.errorf(name, nil, "section is required")
	}

	validateGeneral(c, s.General)
	validatePOSTerminal(c, s.POSTerminal)
	validatePayment(c, s.Payment)
	validateInventory(c, s.Inventory)
	validatePricing(c, s.Pricing)
	validateCustomer(c, s.Customer)
	validateEmployee(c, s.Employee)
	validateTaxation(c, s.Taxation)
	validateReporting(c, s.Reporting)
	validateIntegration(c, s.Integration)
	validateSecurity(c, s.Security)
	validateRestaurant(c, s.Restaurant)
	validateHotel(c, s.Hotel)
	validateRetailGrocery(c, s.RetailGrocery)
	validateSectors(c, s)
	return c.out
}

func validateGeneral(c *collector, g *domain.GeneralSettings) {
	if g == nil {
		return
	}
	c.oneOf("general.businessProfile.industryType", string(domain.ParseIndustryType(string(g.BusinessProfile.IndustryType))),
		"retail", "restaurant", "hotel", "grocery", "salon", "other")
	if g.BusinessProfile.Email != "" && !strings.Contains(g.BusinessProfile.Email, "@") {
		c.errorf("general.businessProfile.email", g.BusinessProfile.Email, "is not an email address")
	}

	ids := make([]string, 0, len(g.Locations))
	mains := 0
	for _, l := range g.Locations {
		ids = append(ids, l.ID)
		if l.IsMainLocation {
			mains++
		}
	}
	c.ids("general.locations", ids)
	if len(g.Locations) > 0 && mains != 1 {
		c.warnf("general.locations", mains, "expected exactly one main location, found %d", mains)
	}

	if !currencyCode.MatchString(g.Currency.Code) {
		c.errorf("general.currency.code", g.Currency.Code, "must be a three-letter ISO 4217 code")
	}
	c.between("general.currency.decimalPlaces", g.Currency.DecimalPlaces, 0, 4)
	c.oneOf("general.currency.symbolPosition", g.Currency.SymbolPosition, "before", "after")
	c.percent("general.taxDefaults.defaultTaxRate", g.TaxDefaults.DefaultTaxRate)
	c.oneOf("general.localization.timeFormat", g.Localization.TimeFormat, "12h", "24h")
	c.oneOf("general.backup.frequency", g.Backup.Frequency, "hourly", "daily", "weekly")
	c.nonNegative("general.backup.retentionDays", float64(g.Backup.RetentionDays))
	c.oneOf("general.updates.channel", g.Updates.Channel, "stable", "beta")
}

func validatePOSTerminal(c *collector, p *domain.POSTerminalSettings) {
	if p == nil {
		return
	}
	c.oneOf("posTerminal.receipt.paperSize", p.Receipt.PaperSize, "58mm", "80mm", "a4")
	c.between("posTerminal.receipt.printCopies", p.Receipt.PrintCopies, 0, 5)
	c.oneOf("posTerminal.display.theme", p.Display.Theme, "light", "dark", "system")
	c.between("posTerminal.display.gridColumns", p.Display.GridColumns, 1, 12)
	c.nonNegative("posTerminal.behavior.idleLockMinutes", float64(p.Behavior.IdleLockMinutes))
	c.oneOf("posTerminal.hardware.printerType", p.Hardware.PrinterType, "usb", "network", "bluetooth", "none")
	c.between("posTerminal.hardware.printerPort", p.Hardware.PrinterPort, 0, 65535)
	if p.Hardware.PrinterType == "network" && p.Hardware.PrinterHost == "" {
		c.errorf("posTerminal.hardware.printerHost", "", "is required for network printers")
	}
}

func validatePayment(c *collector, p *domain.PaymentSettings) {
	if p == nil {
		return
	}
	ids := make([]string, 0, len(p.Methods))
	defaults := make([]bool, 0, len(p.Methods))
	enabled := 0
	for _, m := range p.Methods {
		ids = append(ids, m.ID)
		defaults = append(defaults, m.IsDefault)
		path := "payment.methods[" + m.ID + "]"
		c.oneOf(path+".type", m.Type, "cash", "card", "qris", "ewallet", "bank_transfer", "voucher", "other")
		c.percent(path+".surchargePercent", m.SurchargePercent)
		if m.IsDefault && !m.Enabled {
			c.warnf(path+".isDefault", m.ID, "default payment method is disabled")
		}
		if m.Enabled {
			enabled++
		}
	}
	c.ids("payment.methods", ids)
	c.exclusive("payment.methods.isDefault", defaults)
	if len(p.Methods) > 0 && enabled == 0 {
		c.warnf("payment.methods", 0, "no payment method is enabled")
	}

	gids := make([]string, 0, len(p.Gateways))
	for _, g := range p.Gateways {
		gids = append(gids, g.ID)
		c.oneOf("payment.gateways["+g.ID+"].mode", g.Mode, "test", "live")
		if g.Enabled && g.Provider == "" {
			c.errorf("payment.gateways["+g.ID+"].provider", "", "is required for enabled gateways")
		}
	}
	c.ids("payment.gateways", gids)

	for i, s := range p.Tipping.Suggestions {
		c.percent(fmt.Sprintf("payment.tipping.suggestions[%d]", i), s)
	}
	c.nonNegative("payment.cashRounding.increment", p.CashRounding.Increment)
	if p.CashRounding.Enabled && p.CashRounding.Increment == 0 {
		c.errorf("payment.cashRounding.increment", 0, "must be positive when rounding is enabled")
	}
	c.nonNegative("payment.refunds.refundWindowDays", float64(p.Refunds.RefundWindowDays))
}

func validateInventory(c *collector, inv *domain.InventorySettings) {
	if inv == nil {
		return
	}
	c.nonNegative("inventory.lowStockThreshold", float64(inv.LowStockThreshold))
	c.nonNegative("inventory.reorderPoint", float64(inv.ReorderPoint))
	c.oneOf("inventory.valuationMethod", inv.ValuationMethod, "fifo", "lifo", "average")
	c.oneOf("inventory.barcodeFormat", inv.BarcodeFormat, "ean13", "upca", "code128", "qr")
}

func validatePricing(c *collector, p *domain.PricingSettings) {
	if p == nil {
		return
	}
	ids := make([]string, 0, len(p.PriceLevels))
	for _, l := range p.PriceLevels {
		ids = append(ids, l.ID)
		path := "pricing.priceLevels[" + l.ID + "]"
		c.oneOf(path+".type", l.Type, "percentage", "fixed")
		if l.Type == "percentage" && (l.Value < -100 || l.Value > 100) {
			c.errorf(path+".value", l.Value, "percentage adjustments must be between -100 and 100")
		}
		if strings.TrimSpace(l.Name) == "" {
			c.errorf(path+".name", l.Name, "is required")
		}
	}
	c.ids("pricing.priceLevels", ids)
	c.percent("pricing.discounts.maxDiscountPercent", p.Discounts.MaxDiscountPercent)
	c.percent("pricing.discounts.requireApprovalAbove", p.Discounts.RequireApprovalAbove)
	c.oneOf("pricing.roundingRule", p.RoundingRule, "none", "nearest", "up", "down")
}

func validateCustomer(c *collector, cs *domain.CustomerSettings) {
	if cs == nil {
		return
	}
	c.nonNegative("customer.loyalty.pointsPerCurrency", cs.Loyalty.PointsPerCurrency)
	c.nonNegative("customer.loyalty.redemptionRate", cs.Loyalty.RedemptionRate)
	ids := make([]string, 0, len(cs.Loyalty.Tiers))
	defaults := make([]bool, 0, len(cs.Loyalty.Tiers))
	for _, t := range cs.Loyalty.Tiers {
		ids = append(ids, t.ID)
		defaults = append(defaults, t.IsDefault)
		path := "customer.loyalty.tiers[" + t.ID + "]"
		c.nonNegative(path+".minPoints", float64(t.MinPoints))
		c.percent(path+".discountPercent", t.DiscountPercent)
	}
	c.ids("customer.loyalty.tiers", ids)
	c.exclusive("customer.loyalty.tiers.isDefault", defaults)
	c.nonNegative("customer.storeCredit.creditLimit", cs.StoreCredit.CreditLimit)
}

func validateEmployee(c *collector, e *domain.EmployeeSettings) {
	if e == nil {
		return
	}
	c.nonNegative("employee.timeTracking.overtimeThresholdHours", e.TimeTracking.OvertimeThresholdHours)
	c.percent("employee.commission.defaultRatePercent", e.Commission.DefaultRatePercent)
	c.oneOf("employee.commission.basis", e.Commission.Basis, "gross", "net")
	c.between("employee.pinLength", e.PinLength, 4, 8)
}

func validateTaxation(c *collector, t *domain.TaxationSettings) {
	if t == nil {
		return
	}
	ids := make([]string, 0, len(t.Rates))
	defaults := make([]bool, 0, len(t.Rates))
	for _, r := range t.Rates {
		ids = append(ids, r.ID)
		defaults = append(defaults, r.IsDefault)
		c.percent("taxation.rates["+r.ID+"].rate", r.Rate)
	}
	c.ids("taxation.rates", ids)
	c.exclusive("taxation.rates.isDefault", defaults)
	c.oneOf("taxation.roundingMode", t.RoundingMode, "line", "invoice")
	c.oneOf("taxation.filingFrequency", t.FilingFrequency, "monthly", "quarterly", "yearly")
}

func validateReporting(c *collector, r *domain.ReportingSettings) {
	if r == nil {
		return
	}
	ids := make([]string, 0, len(r.ScheduledReports))
	for _, rep := range r.ScheduledReports {
		ids = append(ids, rep.ID)
		path := "reporting.scheduledReports[" + rep.ID + "]"
		c.oneOf(path+".type", rep.Type, "sales", "inventory", "employee", "tax", "customer")
		c.oneOf(path+".frequency", rep.Frequency, "daily", "weekly", "monthly")
		c.oneOf(path+".format", rep.Format, "pdf", "csv", "xlsx")
		for _, to := range rep.Recipients {
			if !strings.Contains(to, "@") {
				c.errorf(path+".recipients", to, "is not an email address")
			}
		}
		if rep.Enabled && len(rep.Recipients) == 0 {
			c.warnf(path+".recipients", nil, "enabled report has no recipients")
		}
	}
	c.ids("reporting.scheduledReports", ids)
	c.oneOf("reporting.defaultDateRange", r.DefaultDateRange, "today", "week", "month", "quarter", "year")
	c.between("reporting.fiscalYearStartMonth", r.FiscalYearStartMonth, 1, 12)
}

func validateIntegration(c *collector, in *domain.IntegrationSettings) {
	if in == nil {
		return
	}
	c.oneOf("integration.accounting.syncFrequency", in.Accounting.SyncFrequency, "realtime", "hourly", "daily")
	ids := make([]string, 0, len(in.Webhooks))
	for _, w := range in.Webhooks {
		ids = append(ids, w.ID)
		u, err := url.Parse(w.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			c.errorf("integration.webhooks["+w.ID+"].url", w.URL, "must be an absolute http(s) URL")
		}
	}
	c.ids("integration.webhooks", ids)
	c.nonNegative("integration.apiAccess.rateLimitPerMinute", float64(in.APIAccess.RateLimitPerMinute))
}

func validateSecurity(c *collector, s *domain.SecuritySettings) {
	if s == nil {
		return
	}
	c.between("security.passwordPolicy.minLength", s.PasswordPolicy.MinLength, 6, 128)
	c.nonNegative("security.passwordPolicy.expiryDays", float64(s.PasswordPolicy.ExpiryDays))
	if s.Session.TimeoutMinutes < 1 {
		c.errorf("security.session.timeoutMinutes", s.Session.TimeoutMinutes, "must be at least 1")
	}
	c.nonNegative("security.session.maxConcurrentSessions", float64(s.Session.MaxConcurrentSessions))
	c.oneOf("security.twoFactor.method", s.TwoFactor.Method, "totp", "sms", "email")

	ids := make([]string, 0, len(s.IPWhitelist.Addresses))
	for _, a := range s.IPWhitelist.Addresses {
		ids = append(ids, a.ID)
		if !validIPOrCIDR(a.Address) {
			c.errorf("security.ipWhitelist.addresses["+a.ID+"].address", a.Address, "must be an IP address or CIDR range")
		}
	}
	c.ids("security.ipWhitelist.addresses", ids)
	if s.IPWhitelist.Enabled && len(s.IPWhitelist.Addresses) == 0 {
		c.warnf("security.ipWhitelist", nil, "whitelist is enabled but empty")
	}
	c.nonNegative("security.auditLog.retentionDays", float64(s.AuditLog.RetentionDays))
}

func validIPOrCIDR(s string) bool {
	if net.ParseIP(s) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

func validateRestaurant(c *collector, r *domain.RestaurantSettings) {
	if r == nil {
		return
	}
	c.nonNegative("restaurant.tables.defaultTableCount", float64(r.Tables.DefaultTableCount))
	c.percent("restaurant.service.serviceChargePercent", r.Service.ServiceChargePercent)
	c.percent("restaurant.service.autoGratuityPercent", r.Service.AutoGratuityPercent)
	c.nonNegative("restaurant.service.autoGratuityPartySize", float64(r.Service.AutoGratuityPartySize))
}

func validateHotel(c *collector, h *domain.HotelSettings) {
	if h == nil {
		return
	}
	if !clockTime.MatchString(h.CheckInTime) {
		c.errorf("hotel.checkInTime", h.CheckInTime, "must be HH:MM")
	}
	if !clockTime.MatchString(h.CheckOutTime) {
		c.errorf("hotel.checkOutTime", h.CheckOutTime, "must be HH:MM")
	}
	ids := make([]string, 0, len(h.RoomTypes))
	for _, rt := range h.RoomTypes {
		ids = append(ids, rt.ID)
		c.nonNegative("hotel.roomTypes["+rt.ID+"].baseRate", rt.BaseRate)
		if rt.Capacity < 1 {
			c.errorf("hotel.roomTypes["+rt.ID+"].capacity", rt.Capacity, "must be at least 1")
		}
	}
	c.ids("hotel.roomTypes", ids)
	c.percent("hotel.reservations.depositPercent", h.Reservations.DepositPercent)
	c.nonNegative("hotel.reservations.cancellationHours", float64(h.Reservations.CancellationHours))
}

func validateRetailGrocery(c *collector, g *domain.RetailGrocerySettings) {
	if g == nil {
		return
	}
	c.oneOf("retailGrocery.scale.unit", g.Scale.Unit, "kg", "lb")
	if g.PLU.Enabled {
		c.between("retailGrocery.plu.length", g.PLU.Length, 4, 5)
	}
	c.nonNegative("retailGrocery.expiryTracking.warnDaysBefore", float64(g.ExpiryTracking.WarnDaysBefore))
	c.nonNegative("retailGrocery.ageRestriction.minimumAge", float64(g.AgeRestriction.MinimumAge))
}

// validateSectors warns about sector sections the industry type does not use.
func validateSectors(c *collector, s *domain.BusinessSettings) {
	industry := s.IndustryType()
	for _, sec := range s.PresentSectors() {
		if !domain.IsSectorActive(industry, sec) {
			c.warnf(string(sec), string(industry), "section is not used by industry type %q", industry)
		}
	}
}

package domain

import "strings"

// DefaultBusinessSettings builds the document a business starts with before
// anything has been saved for it.
func DefaultBusinessSettings(industry IndustryType, currency string) *BusinessSettings {
	industry = ParseIndustryType(string(industry))
	if industry == "" {
		industry = IndustryRetail
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}

	s := &BusinessSettings{
		General: &GeneralSettings{
			BusinessProfile: BusinessProfile{IndustryType: industry},
			Locations: []Location{
				{ID: "loc-main", Name: "Main store", IsMainLocation: true, Active: true},
			},
			Currency: CurrencySettings{
				Code:           currency,
				Symbol:         currencySymbol(currency),
				DecimalPlaces:  currencyDecimals(currency),
				SymbolPosition: "before",
			},
			TaxDefaults:  TaxDefaults{DefaultTaxRate: 0},
			Localization: Localization{Language: "en", Timezone: "UTC", DateFormat: "2006-01-02", TimeFormat: "24h"},
			Backup:       BackupPolicy{AutoBackup: true, Frequency: "daily", RetentionDays: 30},
			Updates:      UpdatePolicy{AutoUpdate: true, Channel: "stable"},
		},
		POSTerminal: &POSTerminalSettings{
			Receipt:  ReceiptSettings{Footer: "Thank you!", ShowLogo: true, PaperSize: "80mm", AutoPrint: true, PrintCopies: 1},
			Display:  DisplaySettings{Theme: "system", ShowImages: true, GridColumns: 4},
			Behavior: TerminalBehavior{AllowDiscounts: true, QuickSaleEnabled: true, IdleLockMinutes: 15, SoundEnabled: true},
			Hardware: HardwareSettings{PrinterType: "none", CashDrawer: true, BarcodeScanner: true},
		},
		Payment: &PaymentSettings{
			Methods: []PaymentMethod{
				{ID: "payment-method-cash", Name: "Cash", Type: "cash", Enabled: true, IsDefault: true},
				{ID: "payment-method-card", Name: "Card", Type: "card", Enabled: true},
			},
			Tipping:      TippingSettings{Suggestions: []float64{10, 15, 20}, AllowCustom: true},
			CashRounding: CashRounding{},
			Refunds:      RefundPolicy{AllowRefunds: true, RequireManagerApproval: true, RefundWindowDays: 30},
		},
		Inventory: &InventorySettings{
			TrackStock:        true,
			LowStockThreshold: 5,
			ReorderPoint:      10,
			ValuationMethod:   "fifo",
			BarcodeFormat:     "ean13",
			DefaultUnit:       "pcs",
			LowStockAlerts:    true,
		},
		Pricing: &PricingSettings{
			PriceLevels: []PriceLevel{
				{ID: "price-level-retail", Name: "Retail", Type: "percentage", Value: 0, Enabled: true},
			},
			Discounts:    DiscountSettings{MaxDiscountPercent: 50, RequireApprovalAbove: 20},
			RoundingRule: "none",
		},
		Customer: &CustomerSettings{
			Loyalty: LoyaltyProgram{
				PointsPerCurrency: 1,
				RedemptionRate:    0.01,
				Tiers: []LoyaltyTier{
					{ID: "tier-standard", Name: "Standard", IsDefault: true},
				},
			},
		},
		Employee: &EmployeeSettings{
			TimeTracking: TimeTracking{Enabled: true, RequireClockIn: true, OvertimeThresholdHours: 40},
			Commission:   CommissionSettings{Basis: "gross"},
			Permissions:  EmployeePermissions{StaffCanOpenDrawer: true},
			PinLength:    4,
		},
		Taxation: &TaxationSettings{
			Rates: []TaxRate{
				{ID: "tax-rate-standard", Name: "Standard", Rate: 0, IsDefault: true, Enabled: true},
			},
			RoundingMode:    "invoice",
			FilingFrequency: "monthly",
		},
		Reporting: &ReportingSettings{
			DefaultDateRange:     "today",
			FiscalYearStartMonth: 1,
		},
		Integration: &IntegrationSettings{
			Accounting: AccountingIntegration{SyncFrequency: "daily"},
			APIAccess:  APIAccess{RateLimitPerMinute: 60},
		},
		Security: &SecuritySettings{
			PasswordPolicy: PasswordPolicy{MinLength: 8, RequireNumbers: true},
			Session:        SessionPolicy{TimeoutMinutes: 60, MaxConcurrentSessions: 3},
			TwoFactor:      TwoFactorPolicy{Method: "totp"},
			AuditLog:       AuditLogPolicy{Enabled: true, RetentionDays: 90},
		},
	}
	return s.WithSectorDefaults()
}

func DefaultRestaurantSettings() *RestaurantSettings {
	return &RestaurantSettings{
		Tables:   TableManagement{Enabled: true, DefaultTableCount: 10, ShowFloorPlan: true},
		Kitchen:  KitchenSettings{KitchenDisplay: true, PrintTickets: true},
		Service:  ServiceCharges{AutoGratuityPartySize: 8, AutoGratuityPercent: 18},
		Ordering: OrderingSettings{AllowOpenTabs: true, Takeaway: true},
	}
}

func DefaultHotelSettings() *HotelSettings {
	return &HotelSettings{
		CheckInTime:  "14:00",
		CheckOutTime: "11:00",
		RoomTypes: []RoomType{
			{ID: "room-type-standard", Name: "Standard", BaseRate: 0, Capacity: 2},
		},
		Housekeeping: HousekeepingPolicy{Enabled: true, DailyCleaning: true},
		Reservations: ReservationPolicy{DepositPercent: 0, CancellationHours: 24},
	}
}

func DefaultRetailGrocerySettings() *RetailGrocerySettings {
	return &RetailGrocerySettings{
		Scale:          ScaleIntegration{Unit: "kg"},
		PLU:            PLUSettings{Enabled: true, Length: 4},
		ExpiryTracking: ExpiryTracking{Enabled: true, WarnDaysBefore: 3},
		AgeRestriction: AgeRestriction{MinimumAge: 18},
	}
}

func currencySymbol(code string) string {
	switch code {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "IDR":
		return "Rp"
	case "JPY":
		return "¥"
	default:
		return code
	}
}

func currencyDecimals(code string) int {
	switch code {
	case "IDR", "JPY", "KRW", "VND":
		return 0
	default:
		return 2
	}
}

package domain

type POSTerminalSettings struct {
	Receipt  ReceiptSettings  `json:"receipt"`
	Display  DisplaySettings  `json:"display"`
	Behavior TerminalBehavior `json:"behavior"`
	Hardware HardwareSettings `json:"hardware"`
}

type ReceiptSettings struct {
	Header        string `json:"header"`
	Footer        string `json:"footer"`
	ShowLogo      bool   `json:"showLogo"`
	PaperSize     string `json:"paperSize" jsonschema:"enum=58mm,enum=80mm,enum=a4"`
	AutoPrint     bool   `json:"autoPrint"`
	EmailReceipts bool   `json:"emailReceipts"`
	PrintCopies   int    `json:"printCopies" jsonschema:"minimum=0,maximum=5"`
}

type DisplaySettings struct {
	Theme           string `json:"theme" jsonschema:"enum=light,enum=dark,enum=system"`
	ShowImages      bool   `json:"showImages"`
	GridColumns     int    `json:"gridColumns" jsonschema:"minimum=1,maximum=12"`
	CustomerDisplay bool   `json:"customerDisplay"`
}

type TerminalBehavior struct {
	RequireCustomer    bool `json:"requireCustomer"`
	AllowDiscounts     bool `json:"allowDiscounts"`
	QuickSaleEnabled   bool `json:"quickSaleEnabled"`
	CashierPinRequired bool `json:"cashierPinRequired"`
	IdleLockMinutes    int  `json:"idleLockMinutes" jsonschema:"minimum=0"`
	SoundEnabled       bool `json:"soundEnabled"`
}

type HardwareSettings struct {
	PrinterName    string `json:"printerName"`
	PrinterType    string `json:"printerType" jsonschema:"enum=usb,enum=network,enum=bluetooth,enum=none"`
	PrinterHost    string `json:"printerHost"`
	PrinterPort    int    `json:"printerPort" jsonschema:"minimum=0,maximum=65535"`
	CashDrawer     bool   `json:"cashDrawer"`
	BarcodeScanner bool   `json:"barcodeScanner"`
	CardReader     bool   `json:"cardReader"`
}

type PaymentSettings struct {
	Methods       []PaymentMethod  `json:"methods" kind:"payment-method"`
	Gateways      []PaymentGateway `json:"gateways" kind:"gateway"`
	Tipping       TippingSettings  `json:"tipping"`
	SplitPayments bool             `json:"splitPayments"`
	CashRounding  CashRounding     `json:"cashRounding"`
	Refunds       RefundPolicy     `json:"refunds"`
}

type PaymentMethod struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Type             string  `json:"type" jsonschema:"enum=cash,enum=card,enum=qris,enum=ewallet,enum=bank_transfer,enum=voucher,enum=other"`
	Enabled          bool    `json:"enabled"`
	IsDefault        bool    `json:"isDefault"`
	SurchargePercent float64 `json:"surchargePercent" jsonschema:"minimum=0,maximum=100"`
}

type PaymentGateway struct {
	ID         string `json:"id"`
	Provider   string `json:"provider"`
	Enabled    bool   `json:"enabled"`
	Mode       string `json:"mode" jsonschema:"enum=test,enum=live"`
	MerchantID string `json:"merchantId"`
	PublicKey  string `json:"publicKey"`
}

type TippingSettings struct {
	Enabled     bool      `json:"enabled"`
	Suggestions []float64 `json:"suggestions"`
	AllowCustom bool      `json:"allowCustom"`
}

type CashRounding struct {
	Enabled   bool    `json:"enabled"`
	Increment float64 `json:"increment" jsonschema:"minimum=0"`
}

type RefundPolicy struct {
	AllowRefunds           bool `json:"allowRefunds"`
	RequireManagerApproval bool `json:"requireManagerApproval"`
	RefundWindowDays       int  `json:"refundWindowDays" jsonschema:"minimum=0"`
}

type InventorySettings struct {
	TrackStock         bool   `json:"trackStock"`
	AllowNegativeStock bool   `json:"allowNegativeStock"`
	LowStockThreshold  int    `json:"lowStockThreshold" jsonschema:"minimum=0"`
	ReorderPoint       int    `json:"reorderPoint" jsonschema:"minimum=0"`
	AutoReorder        bool   `json:"autoReorder"`
	ValuationMethod    string `json:"valuationMethod" jsonschema:"enum=fifo,enum=lifo,enum=average"`
	BarcodeFormat      string `json:"barcodeFormat" jsonschema:"enum=ean13,enum=upca,enum=code128,enum=qr"`
	DefaultUnit        string `json:"defaultUnit"`
	LowStockAlerts     bool   `json:"lowStockAlerts"`
}

type PricingSettings struct {
	PriceLevels       []PriceLevel     `json:"priceLevels" kind:"price-level"`
	Discounts         DiscountSettings `json:"discounts"`
	RoundingRule      string           `json:"roundingRule" jsonschema:"enum=none,enum=nearest,enum=up,enum=down"`
	PromotionsEnabled bool             `json:"promotionsEnabled"`
}

type PriceLevel struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type" jsonschema:"enum=percentage,enum=fixed"`
	Value   float64 `json:"value"`
	Enabled bool    `json:"enabled"`
}

type DiscountSettings struct {
	AllowStacking        bool    `json:"allowStacking"`
	MaxDiscountPercent   float64 `json:"maxDiscountPercent" jsonschema:"minimum=0,maximum=100"`
	RequireApprovalAbove float64 `json:"requireApprovalAbove" jsonschema:"minimum=0,maximum=100"`
}

type CustomerSettings struct {
	RequireCustomerInfo bool              `json:"requireCustomerInfo"`
	Loyalty             LoyaltyProgram    `json:"loyalty"`
	Marketing           MarketingConsent  `json:"marketing"`
	StoreCredit         StoreCreditPolicy `json:"storeCredit"`
}

type LoyaltyProgram struct {
	Enabled           bool          `json:"enabled"`
	PointsPerCurrency float64       `json:"pointsPerCurrency" jsonschema:"minimum=0"`
	RedemptionRate    float64       `json:"redemptionRate" jsonschema:"minimum=0"`
	Tiers             []LoyaltyTier `json:"tiers" kind:"tier"`
}

type LoyaltyTier struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	MinPoints       int     `json:"minPoints" jsonschema:"minimum=0"`
	DiscountPercent float64 `json:"discountPercent" jsonschema:"minimum=0,maximum=100"`
	IsDefault       bool    `json:"isDefault"`
}

type MarketingConsent struct {
	EmailOptIn bool `json:"emailOptIn"`
	SMSOptIn   bool `json:"smsOptIn"`
}

type StoreCreditPolicy struct {
	Enabled     bool    `json:"enabled"`
	CreditLimit float64 `json:"creditLimit" jsonschema:"minimum=0"`
}

type EmployeeSettings struct {
	TimeTracking TimeTracking        `json:"timeTracking"`
	Commission   CommissionSettings  `json:"commission"`
	Permissions  EmployeePermissions `json:"permissions"`
	PinLength    int                 `json:"pinLength" jsonschema:"minimum=4,maximum=8"`
}

type TimeTracking struct {
	Enabled                bool    `json:"enabled"`
	RequireClockIn         bool    `json:"requireClockIn"`
	OvertimeThresholdHours float64 `json:"overtimeThresholdHours" jsonschema:"minimum=0"`
}

type CommissionSettings struct {
	Enabled            bool    `json:"enabled"`
	DefaultRatePercent float64 `json:"defaultRatePercent" jsonschema:"minimum=0,maximum=100"`
	Basis              string  `json:"basis" jsonschema:"enum=gross,enum=net"`
}

type EmployeePermissions struct {
	StaffCanRefund      bool `json:"staffCanRefund"`
	StaffCanVoid        bool `json:"staffCanVoid"`
	StaffCanOpenDrawer  bool `json:"staffCanOpenDrawer"`
	StaffCanViewReports bool `json:"staffCanViewReports"`
}

type TaxationSettings struct {
	Rates           []TaxRate `json:"rates" kind:"tax-rate"`
	TaxInclusive    bool      `json:"taxInclusive"`
	RoundingMode    string    `json:"roundingMode" jsonschema:"enum=line,enum=invoice"`
	FilingFrequency string    `json:"filingFrequency" jsonschema:"enum=monthly,enum=quarterly,enum=yearly"`
}

type TaxRate struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Rate      float64 `json:"rate" jsonschema:"minimum=0,maximum=100"`
	IsDefault bool    `json:"isDefault"`
	Enabled   bool    `json:"enabled"`
}

type ReportingSettings struct {
	ScheduledReports     []ScheduledReport `json:"scheduledReports" kind:"report"`
	DefaultDateRange     string            `json:"defaultDateRange" jsonschema:"enum=today,enum=week,enum=month,enum=quarter,enum=year"`
	FiscalYearStartMonth int               `json:"fiscalYearStartMonth" jsonschema:"minimum=1,maximum=12"`
}

type ScheduledReport struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type" jsonschema:"enum=sales,enum=inventory,enum=employee,enum=tax,enum=customer"`
	Frequency  string   `json:"frequency" jsonschema:"enum=daily,enum=weekly,enum=monthly"`
	Format     string   `json:"format" jsonschema:"enum=pdf,enum=csv,enum=xlsx"`
	Recipients []string `json:"recipients"`
	Enabled    bool     `json:"enabled"`
}

type IntegrationSettings struct {
	Accounting AccountingIntegration `json:"accounting"`
	Ecommerce  EcommerceIntegration  `json:"ecommerce"`
	Webhooks   []Webhook             `json:"webhooks" kind:"webhook"`
	APIAccess  APIAccess             `json:"apiAccess"`
}

type AccountingIntegration struct {
	Enabled       bool   `json:"enabled"`
	Provider      string `json:"provider"`
	SyncFrequency string `json:"syncFrequency" jsonschema:"enum=realtime,enum=hourly,enum=daily"`
}

type EcommerceIntegration struct {
	Enabled       bool   `json:"enabled"`
	Provider      string `json:"provider"`
	SyncInventory bool   `json:"syncInventory"`
	SyncOrders    bool   `json:"syncOrders"`
}

type Webhook struct {
	ID      string   `json:"id"`
	URL     string   `json:"url"`
	Events  []string `json:"events"`
	Enabled bool     `json:"enabled"`
}

type APIAccess struct {
	Enabled            bool `json:"enabled"`
	RateLimitPerMinute int  `json:"rateLimitPerMinute" jsonschema:"minimum=0"`
}

type SecuritySettings struct {
	PasswordPolicy PasswordPolicy  `json:"passwordPolicy"`
	Session        SessionPolicy   `json:"session"`
	TwoFactor      TwoFactorPolicy `json:"twoFactor"`
	IPWhitelist    IPWhitelist     `json:"ipWhitelist"`
	AuditLog       AuditLogPolicy  `json:"auditLog"`
}

type PasswordPolicy struct {
	MinLength        int  `json:"minLength" jsonschema:"minimum=6,maximum=128"`
	RequireUppercase bool `json:"requireUppercase"`
	RequireNumbers   bool `json:"requireNumbers"`
	RequireSymbols   bool `json:"requireSymbols"`
	ExpiryDays       int  `json:"expiryDays" jsonschema:"minimum=0"`
}

type SessionPolicy struct {
	TimeoutMinutes        int `json:"timeoutMinutes" jsonschema:"minimum=1"`
	MaxConcurrentSessions int `json:"maxConcurrentSessions" jsonschema:"minimum=0"`
}

type TwoFactorPolicy struct {
	Enabled bool   `json:"enabled"`
	Method  string `json:"method" jsonschema:"enum=totp,enum=sms,enum=email"`
}

type IPWhitelist struct {
	Enabled   bool        `json:"enabled"`
	Addresses []IPAddress `json:"addresses" kind:"ip"`
}

type IPAddress struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Label   string `json:"label"`
}

type AuditLogPolicy struct {
	Enabled       bool `json:"enabled"`
	RetentionDays int  `json:"retentionDays" jsonschema:"minimum=0"`
}

package model

// Thresholds are the configured stock level boundaries consumed by the
// alert classification.
type Thresholds struct {
	Critical int `json:"critical"`
	Low      int `json:"low"`
	Warning  int `json:"warning"`
}

// Defaults applied when the settings row is lazily created.
const (
	DefaultCriticalThreshold = 5
	DefaultLowThreshold      = 10
	DefaultWarningThreshold  = 15
)

// SystemSettings is a singleton row, created with defaults on first read.
type SystemSettings struct {
	ID                     uint     `gorm:"primaryKey" json:"id"`
	BusinessName           string   `gorm:"type:varchar(255)" json:"business_name"`
	Address                string   `gorm:"type:varchar(255)" json:"address"`
	Currency               string   `gorm:"type:varchar(10);default:'PHP'" json:"currency"`
	Language               string   `gorm:"type:varchar(30);default:'English'" json:"language"`
	CriticalStockThreshold int      `json:"critical_stock_threshold"`
	LowStockThreshold      int      `json:"low_stock_threshold"`
	WarningStockThreshold  int      `json:"warning_stock_threshold"`
	Recipients             []string `gorm:"serializer:json;type:text" json:"recipients"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}

// DefaultSystemSettings is the row written on first read.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		Currency:               "PHP",
		Language:               "English",
		CriticalStockThreshold: DefaultCriticalThreshold,
		LowStockThreshold:      DefaultLowThreshold,
		WarningStockThreshold:  DefaultWarningThreshold,
		Recipients:             []string{"admins", "managers", "staff"},
	}
}

func (s *SystemSettings) Thresholds() Thresholds {
	return Thresholds{
		Critical: s.CriticalStockThreshold,
		Low:      s.LowStockThreshold,
		Warning:  s.WarningStockThreshold,
	}
}

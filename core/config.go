package core

import (
	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config lever config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Feed   Feed      `json:"feed"`
	Rate   Rate      `json:"rate"`
	Owners []string  `json:"owners"`
}

// IsOwner check if the user is a protocol owner
func (c *Config) IsOwner(userID string) bool {
	return govalidator.IsIn(userID, c.Owners...)
}

// App app config
type App struct {
	Genesis int64 `json:"genesis"`
	// 参考资产，所有价格以它计价
	ReferenceAssetID string `json:"reference_asset_id"`
	// oracle averaging window, seconds
	OracleWindow int64  `json:"oracle_window"`
	Location     string `json:"location"`
	Port         int    `json:"port"`
}

// Feed external price feed config
type Feed struct {
	EndPoint string `json:"end_point"`
	// settlement endpoint the cashier delivers transfers to
	SettlementEndPoint string `json:"settlement_end_point"`
}

// Rate interest model parameters, protocol decimals (0.2 = 20%)
type Rate struct {
	MinRate    decimal.Decimal `json:"min_rate"`
	MaxRate    decimal.Decimal `json:"max_rate"`
	AdjustRate decimal.Decimal `json:"adjust_rate"`
}

package cmd

import (
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	_ "github.com/lib/pq"

	"lever/core"
	"lever/service/block"
	feedservice "lever/service/feed"
	gateservice "lever/service/gate"
	oracleservice "lever/service/oracle"
	poolservice "lever/service/pool"
	positionservice "lever/service/position"
	riskservice "lever/service/risk"
	transferservice "lever/service/transfer"
	"lever/store/asset"
	"lever/store/oracle"
	"lever/store/pool"
	"lever/store/position"
	"lever/store/risk"
	"lever/store/supply"
	"lever/store/transfer"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func providePoolStore(db *db.DB) core.IPoolStore {
	return pool.New(db)
}

func provideSupplyStore(db *db.DB) core.ISupplyStore {
	return supply.New(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return position.New(db)
}

func provideRiskStore(db *db.DB) core.IRiskStore {
	return risk.New(db)
}

func provideOracleStore(db *db.DB) core.IOracleStore {
	return oracle.New(db)
}

func provideTransferStore(db *db.DB) core.ITransferStore {
	return transfer.New(db)
}

func provideAssetStore(db *db.DB) core.IAssetStore {
	return asset.New(db)
}

// ------------------service------------------------------------

func provideBlockService() core.IBlockService {
	return block.New(provideConfig())
}

func provideGateService(db *db.DB) core.IGateService {
	return gateservice.New(provideConfig(), providePropertyStore(db))
}

func provideFeedService() *feedservice.Service {
	return feedservice.New(provideConfig())
}

func provideOracleService(db *db.DB) core.IOracleService {
	feed := provideFeedService()
	return oracleservice.New(db, provideConfig(), provideOracleStore(db), feed, feed)
}

func provideRiskService(db *db.DB) core.IRiskService {
	return riskservice.New(db, provideRiskStore(db))
}

func providePoolService(db *db.DB) core.IPoolService {
	return poolservice.New(provideConfig(), db, providePoolStore(db), provideSupplyStore(db), provideGateService(db))
}

func provideTransferService(db *db.DB) core.ITransferService {
	return transferservice.New(provideConfig(), provideTransferStore(db))
}

func providePositionService(db *db.DB) core.IPositionService {
	return positionservice.New(
		db,
		providePoolStore(db),
		providePositionStore(db),
		provideRiskStore(db),
		providePoolService(db),
		provideRiskService(db),
		provideOracleService(db),
		provideBlockService(),
		provideGateService(db),
		provideTransferService(db),
	)
}

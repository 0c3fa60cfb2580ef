package database

import (
	"net"
	"time"

	"travel-journal/config"
	"travel-journal/internal/global/sentry/tracing"
	"travel-journal/internal/store/relational"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

func DSN(c config.Mysql) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = c.Username
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, c.Port)
	cfg.DBName = c.DBName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	// 条目内容里有 emoji
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Open 连接数据库，不做迁移
func Open() (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true}, // 还是单数表名好
	}

	switch config.Get().Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(mysql.Open(DSN(config.Get().Mysql)), gormConfig)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}

	if tracing.IsEnabled() {
		if err := db.Use(tracing.NewGormTracingPlugin()); err != nil {
			return nil, errors.Wrap(err, "register gorm tracing")
		}
	}
	return db, nil
}

// Init 连接并自动迁移 trip / entry 表
func Init() error {
	db, err := Open()
	if err != nil {
		return err
	}
	if err := relational.New(db).Migrate(); err != nil {
		return err
	}
	DB = db
	return nil
}

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"apisagro-backend/internal/common"
)

var validDBName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// NewStore builds the store selected by cfg.Driver. For SQL drivers the
// database is created when missing and the tables are migrated before it
// returns. The returned close func releases the pool.
func NewStore(cfg common.DBConfig) (Store, func() error, error) {
	if cfg.Driver == common.DriverMemory {
		common.Logger().Warn("using in-memory storage, records are lost on restart")
		return NewMemoryStore(), func() error { return nil }, nil
	}

	if err := EnsureDatabase(cfg); err != nil {
		return nil, nil, err
	}
	gdb, err := Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	store := NewGormStore(gdb)
	return store, store.Close, nil
}

// Open connects, tunes the pool and migrates the three tables.
func Open(cfg common.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case common.DriverPostgres:
		dialector = postgres.Open(PostgresDSN(cfg, cfg.Name))
	default:
		dsn, err := MySQLDSN(cfg, true)
		if err != nil {
			return nil, err
		}
		dialector = gormmysql.Open(dsn)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(common.Logger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying database connection: %w", err)
	}
	if cfg.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	if cfg.MaxLife > 0 {
		sqlDB.SetConnMaxLifetime(cfg.MaxLife)
	}

	if err := gdb.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("migrate tables: %w", err)
	}
	common.WithFields("driver", cfg.Driver, "database", cfg.Name).Info("tables migrated")
	return gdb, nil
}

// EnsureDatabase creates the configured database on the server if absent.
func EnsureDatabase(cfg common.DBConfig) error {
	switch cfg.Driver {
	case common.DriverPostgres:
		return ensurePostgres(cfg)
	default:
		return ensureMySQL(cfg)
	}
}

func ensureMySQL(cfg common.DBConfig) error {
	name, err := mysqlDBName(cfg)
	if err != nil {
		return err
	}
	dsn, err := MySQLDSN(cfg, false)
	if err != nil {
		return err
	}

	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("connect mysql server: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1045 {
			return fmt.Errorf("access denied creating database %q, check DB_USER and DB_PASSWORD: %w", name, err)
		}
		return fmt.Errorf("create database %q: %w", name, err)
	}
	common.WithFields("database", name).Info("database is ready")
	return nil
}

func ensurePostgres(cfg common.DBConfig) error {
	if !validDBName.MatchString(cfg.Name) {
		return fmt.Errorf("invalid database name %q", cfg.Name)
	}
	gdb, err := gorm.Open(postgres.Open(PostgresDSN(cfg, "postgres")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("connect postgres server: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var count int64
	if err := gdb.Raw("SELECT count(*) FROM pg_database WHERE datname = ?", cfg.Name).Scan(&count).Error; err != nil {
		return fmt.Errorf("lookup database %q: %w", cfg.Name, err)
	}
	if count > 0 {
		return nil
	}
	if err := gdb.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.Name)).Error; err != nil {
		return fmt.Errorf("create database %q: %w", cfg.Name, err)
	}
	common.WithFields("database", cfg.Name).Info("database created")
	return nil
}

// MySQLDSN returns the connection string, with or without the database
// selected. MYSQL_DSN takes precedence over the host fields.
func MySQLDSN(cfg common.DBConfig, withDB bool) (string, error) {
	var mc *mysql.Config
	if cfg.MySQLDSN != "" {
		parsed, err := mysql.ParseDSN(cfg.MySQLDSN)
		if err != nil {
			return "", fmt.Errorf("parse MYSQL_DSN: %w", err)
		}
		mc = parsed
	} else {
		mc = mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		mc.DBName = cfg.Name
		mc.Params = map[string]string{"charset": "utf8mb4"}
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	if !withDB {
		mc.DBName = ""
	}
	return mc.FormatDSN(), nil
}

func mysqlDBName(cfg common.DBConfig) (string, error) {
	name := cfg.Name
	if cfg.MySQLDSN != "" {
		parsed, err := mysql.ParseDSN(cfg.MySQLDSN)
		if err != nil {
			return "", fmt.Errorf("parse MYSQL_DSN: %w", err)
		}
		name = parsed.DBName
	}
	if !validDBName.MatchString(name) {
		return "", fmt.Errorf("invalid database name %q", name)
	}
	return name, nil
}

func PostgresDSN(cfg common.DBConfig, dbName string) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, dbName, cfg.Port,
	)
}

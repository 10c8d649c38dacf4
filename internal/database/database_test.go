package database

import (
	"errors"
	"testing"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := initDatabase(DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestParseDatabaseURI(t *testing.T) {
	testCases := []struct {
		name    string
		uri     string
		want    DatabaseConfig
		wantErr bool
	}{
		{name: "sqlite url", uri: "sqlite:///app.db", want: DatabaseConfig{Driver: DriverSQLite, Path: "app.db"}},
		{name: "sqlite absolute path", uri: "sqlite:////var/lib/app.db", want: DatabaseConfig{Driver: DriverSQLite, Path: "/var/lib/app.db"}},
		{name: "bare path", uri: "test.sqlite", want: DatabaseConfig{Driver: DriverSQLite, Path: "test.sqlite"}},
		{name: "postgres", uri: "postgres://u:p@localhost:5432/pizzas", want: DatabaseConfig{Driver: DriverPostgres, URL: "postgres://u:p@localhost:5432/pizzas"}},
		{name: "postgresql", uri: "postgresql://localhost/pizzas", want: DatabaseConfig{Driver: DriverPostgres, URL: "postgresql://localhost/pizzas"}},
		{name: "unsupported scheme", uri: "mysql://localhost/pizzas", wantErr: true},
		{name: "empty", uri: "  ", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDatabaseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDSN(t *testing.T) {
	sqliteCfg := DatabaseConfig{Driver: DriverSQLite, Path: "app.db"}
	assert.Equal(t, "app.db?_foreign_keys=on", sqliteCfg.DSN())

	withParams := DatabaseConfig{Driver: DriverSQLite, Path: "file:app.db?cache=shared"}
	assert.Equal(t, "file:app.db?cache=shared&_foreign_keys=on", withParams.DSN())

	explicit := DatabaseConfig{Driver: DriverSQLite, Path: "app.db?_foreign_keys=off"}
	assert.Equal(t, "app.db?_foreign_keys=off", explicit.DSN())

	pg := DatabaseConfig{Driver: DriverPostgres, URL: "postgres://u:p@localhost/pizzas"}
	assert.Equal(t, "postgres://u:p@localhost/pizzas", pg.DSN())
	assert.NotContains(t, pg.String(), ":p@")

	unknown := DatabaseConfig{Driver: "oracle"}
	assert.Empty(t, unknown.DSN())
}

func TestInitDatabaseUnsupportedDriver(t *testing.T) {
	db, err := InitDatabase(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestSeedIfEmpty(t *testing.T) {
	db := setupTestDB(t)

	seeded, err := SeedIfEmpty(db)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = SeedIfEmpty(db)
	require.NoError(t, err)
	assert.False(t, seeded)

	var restaurants, pizzas, prices int64
	require.NoError(t, db.Model(&models.Restaurant{}).Count(&restaurants).Error)
	require.NoError(t, db.Model(&models.Pizza{}).Count(&pizzas).Error)
	require.NoError(t, db.Model(&models.RestaurantPizza{}).Count(&prices).Error)
	assert.Equal(t, int64(3), restaurants)
	assert.Equal(t, int64(3), pizzas)
	assert.Equal(t, int64(3), prices)
}

func TestForeignKeysEnforced(t *testing.T) {
	db := setupTestDB(t)

	err := db.Create(&models.RestaurantPizza{Price: 10, PizzaID: 99, RestaurantID: 99}).Error
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, Ping(t.Context(), db))
}

func TestGormLogsThroughLogrus(t *testing.T) {
	db := setupTestDB(t)
	previous := log.ReplaceHooks(make(logrus.LevelHooks))
	t.Cleanup(func() { log.ReplaceHooks(previous) })
	hook := test.NewLocal(log)

	var restaurant models.Restaurant
	err := db.First(&restaurant, 9999).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, hook.AllEntries(), "missing rows are not logged")

	err = db.Create(&models.RestaurantPizza{Price: 10, PizzaID: 99, RestaurantID: 99}).Error
	require.Error(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Contains(t, entry.Message, "FOREIGN KEY")
}

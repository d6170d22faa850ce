package repository

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/theatre-booking/internal/database"
)

func TestShareLockFollowsDriver(t *testing.T) {
	assert.Equal(t, " LOCK IN SHARE MODE", shareLock(sqlx.NewDb(nil, database.DriverMySQL)))
	assert.Equal(t, "", shareLock(sqlx.NewDb(nil, database.DriverSQLite)))
	assert.Equal(t, "", shareLock(nil))
}

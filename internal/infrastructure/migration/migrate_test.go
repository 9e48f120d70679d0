package migration

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMigrator мок для интерфейса Migrator
type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func engineFor(m Migrator, gotSource *string) MigrationEngine {
	return func(source, _ string) (Migrator, error) {
		if gotSource != nil {
			*gotSource = source
		}
		return m, nil
	}
}

func TestMigration_Up_Success(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Version").Return(uint(1), false, nil)
	mockM.On("Close").Return(nil, nil)

	var source string
	mg := NewMigration("migrations", "postgres://localhost/pos", engineFor(mockM, &source))

	version, err := mg.Up()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.Equal(t, "file://migrations", source)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_NoChange(t *testing.T) {
	mockM := new(MockMigrator)

	// ErrNoChange не должна считаться ошибкой в методе Up()
	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Version").Return(uint(1), false, nil)
	mockM.On("Close").Return(nil, nil)

	mg := NewMigration("migrations", "", engineFor(mockM, nil))
	version, err := mg.Up()
	assert.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestMigration_Up_EmptySource(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Version").Return(uint(0), false, migrate.ErrNilVersion)
	mockM.On("Close").Return(nil, nil)

	version, err := NewMigration("migrations", "", engineFor(mockM, nil)).Up()
	assert.NoError(t, err)
	assert.Zero(t, version)
}

func TestMigration_Up_Dirty(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Version").Return(uint(3), true, nil)
	mockM.On("Close").Return(nil, nil)

	version, err := NewMigration("migrations", "", engineFor(mockM, nil)).Up()
	assert.ErrorIs(t, err, ErrDirty)
	assert.Equal(t, uint(3), version)
}

func TestMigration_Up_Failure(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(errors.New("dirty database"))
	mockM.On("Close").Return(nil, errors.New("conn closed"))

	mg := NewMigration("migrations", "", engineFor(mockM, nil))
	_, err := mg.Up()

	assert.ErrorContains(t, err, "dirty database")
	assert.ErrorContains(t, err, "conn closed")
	mockM.AssertNotCalled(t, "Version")
}

func TestMigration_Up_EngineError(t *testing.T) {
	// Ошибка на этапе создания мигратора (например, неверный драйвер)
	engine := func(source, db string) (Migrator, error) {
		return nil, errors.New("engine crash")
	}

	_, err := NewMigration("", "", engine).Up()

	assert.Error(t, err)
	assert.Equal(t, "engine crash", err.Error())
}

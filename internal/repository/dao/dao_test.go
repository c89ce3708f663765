package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		// No Docker daemon; every test here will skip itself.
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=guildops_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%v user=postgres password=secret dbname=guildops_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	pool.MaxWait = 60 * time.Second
	if err = pool.Retry(func() error {
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		if pingErr := sqlDB.Ping(); pingErr != nil {
			return pingErr
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

// requireDB truncates all tables so every test starts clean.
func requireDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testDB == nil {
		t.Skip("docker is not available")
	}

	err := testDB.Exec("TRUNCATE users, characters, events, attendances, wishes, items RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)

	return testDB
}

func seedCharacter(t *testing.T, db *gorm.DB, name string, dkp int, status string) Character {
	t.Helper()

	user, err := NewUserDAO(db).Insert(context.Background(), User{
		Email:    name + "@example.com",
		Password: "hash",
		Name:     name,
	})
	require.NoError(t, err)

	character, err := NewCharacterDAO(db).Insert(context.Background(), Character{
		UserID: user.ID,
		Name:   name,
		Dkp:    dkp,
		Status: status,
	})
	require.NoError(t, err)

	return character
}

func seedEvent(t *testing.T, db *gorm.DB, title string, reward int) Event {
	t.Helper()

	start := time.Date(2025, 10, 6, 20, 0, 0, 0, time.UTC)
	event, err := NewEventDAO(db).Insert(context.Background(), Event{
		Title:     title,
		StartsAt:  start,
		EndsAt:    start.Add(3 * time.Hour),
		DkpReward: reward,
	})
	require.NoError(t, err)

	return event
}

func TestUserDAOUniqueEmail(t *testing.T) {
	db := requireDB(t)
	userDAO := NewUserDAO(db)

	_, err := userDAO.Insert(context.Background(), User{Email: "a@example.com", Password: "x", Name: "A"})
	require.NoError(t, err)

	_, err = userDAO.Insert(context.Background(), User{Email: "a@example.com", Password: "x", Name: "B"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestCharacterDAOUniqueName(t *testing.T) {
	db := requireDB(t)

	seedCharacter(t, db, "Thrall", 0, "ACTIVE")

	user, err := NewUserDAO(db).Insert(context.Background(), User{Email: "b@example.com", Password: "x", Name: "B"})
	require.NoError(t, err)

	_, err = NewCharacterDAO(db).Insert(context.Background(), Character{UserID: user.ID, Name: "Thrall"})
	assert.ErrorIs(t, err, ErrCharacterNameExists)
}

func TestAttendanceDAORecord(t *testing.T) {
	db := requireDB(t)
	attendanceDAO := NewAttendanceDAO(db)
	characterDAO := NewCharacterDAO(db)

	character := seedCharacter(t, db, "Thrall", 0, "ACTIVE")
	event := seedEvent(t, db, "Molten Core", 50)

	credited, err := attendanceDAO.Record(context.Background(), event.ID, character.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, credited)

	reloaded, err := characterDAO.FindByID(context.Background(), character.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.Dkp)

	// Double record must fail and must not double credit.
	_, err = attendanceDAO.Record(context.Background(), event.ID, character.ID)
	assert.ErrorIs(t, err, ErrAttendanceExists)

	reloaded, err = characterDAO.FindByID(context.Background(), character.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.Dkp)

	_, err = attendanceDAO.Record(context.Background(), 9999, character.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = attendanceDAO.Record(context.Background(), event.ID, 9999)
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestAttendanceDAORemoveDebitsSnapshot(t *testing.T) {
	db := requireDB(t)
	attendanceDAO := NewAttendanceDAO(db)
	characterDAO := NewCharacterDAO(db)
	eventDAO := NewEventDAO(db)

	character := seedCharacter(t, db, "Jaina", 0, "ACTIVE")
	event := seedEvent(t, db, "Onyxia", 30)

	_, err := attendanceDAO.Record(context.Background(), event.ID, character.ID)
	require.NoError(t, err)

	// Raising the reward afterwards must not change what gets reversed.
	event.DkpReward = 100
	_, err = eventDAO.Update(context.Background(), event)
	require.NoError(t, err)

	reversed, err := attendanceDAO.Remove(context.Background(), event.ID, character.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, reversed)

	reloaded, err := characterDAO.FindByID(context.Background(), character.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Dkp)

	_, err = attendanceDAO.Remove(context.Background(), event.ID, character.ID)
	assert.ErrorIs(t, err, ErrAttendanceNotFound)
}

func TestAttendanceDAORemoveMissingCharacter(t *testing.T) {
	db := requireDB(t)
	attendanceDAO := NewAttendanceDAO(db)

	character := seedCharacter(t, db, "Varian", 0, "ACTIVE")
	event := seedEvent(t, db, "Naxxramas", 60)

	_, err := attendanceDAO.Record(context.Background(), event.ID, character.ID)
	require.NoError(t, err)

	// The character row vanishing out from under the ledger must not
	// count as a reversal that debited nobody.
	require.NoError(t, db.Exec("DELETE FROM characters WHERE id = ?", character.ID).Error)

	_, err = attendanceDAO.Remove(context.Background(), event.ID, character.ID)
	assert.ErrorIs(t, err, ErrCharacterNotFound)

	// The rollback keeps the attendance row for reconciliation.
	var count int64
	err = db.Model(&Attendance{}).
		Where("event_id = ? AND character_id = ?", event.ID, character.ID).
		Count(&count).Error
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestWishDAORankedOrder(t *testing.T) {
	db := requireDB(t)
	wishDAO := NewWishDAO(db)
	itemDAO := NewItemDAO(db)

	item, err := itemDAO.Insert(context.Background(), Item{Name: "Thunderfury", MinDkpCost: 100})
	require.NoError(t, err)

	rich := seedCharacter(t, db, "Thrall", 150, "ACTIVE")
	poor := seedCharacter(t, db, "Anduin", 40, "ACTIVE")
	tiedFirstWish := seedCharacter(t, db, "Jaina", 100, "ACTIVE")
	tiedSecondWish := seedCharacter(t, db, "Uther", 100, "ACTIVE")

	// Explicit timestamps pin the tie-break order.
	wished := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	for i, c := range []Character{poor, tiedFirstWish, rich, tiedSecondWish} {
		_, err = wishDAO.Insert(context.Background(), Wish{
			CharacterID: c.ID,
			ItemID:      item.ID,
			CreatedAt:   wished.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	ranked, err := wishDAO.FindRankedByItemID(context.Background(), item.ID)
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	// Highest balance first; on equal balances the earlier wish wins.
	assert.Equal(t, rich.ID, ranked[0].CharacterID)
	assert.Equal(t, tiedFirstWish.ID, ranked[1].CharacterID)
	assert.Equal(t, tiedSecondWish.ID, ranked[2].CharacterID)
	assert.Equal(t, poor.ID, ranked[3].CharacterID)

	// Duplicate wish for the same pair.
	_, err = wishDAO.Insert(context.Background(), Wish{CharacterID: rich.ID, ItemID: item.ID})
	assert.ErrorIs(t, err, ErrWishExists)
}

func TestEventDAOStats(t *testing.T) {
	db := requireDB(t)
	attendanceDAO := NewAttendanceDAO(db)
	eventDAO := NewEventDAO(db)

	event := seedEvent(t, db, "Blackwing Lair", 40)
	a := seedCharacter(t, db, "Thrall", 0, "ACTIVE")
	b := seedCharacter(t, db, "Jaina", 0, "ACTIVE")

	_, err := attendanceDAO.Record(context.Background(), event.ID, a.ID)
	require.NoError(t, err)
	_, err = attendanceDAO.Record(context.Background(), event.ID, b.ID)
	require.NoError(t, err)

	stats, err := eventDAO.Stats(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Attendees)
	assert.Equal(t, 80, stats.TotalAwarded)
}

package mongo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

// setupMongo starts a throwaway MongoDB and returns a database with indexes
// ensured. The test is skipped in -short mode or without a Docker provider.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForListeningPort("27017/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	client, db, err := Connect(ctx, Config{
		URI:      fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		Database: "attorney_portfolio_test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestMongoRepositories(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		repo := NewUserRepository(db)
		now := time.Now().UTC().Truncate(time.Millisecond)

		created, err := repo.Create(ctx, &domain.User{
			Name: "Ana", Email: " Ana@X.com", PasswordHash: "hash", Role: domain.RoleClient,
			CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)
		assert.Len(t, created.ID, 24)
		assert.Equal(t, "ana@x.com", created.Email)

		_, err = repo.Create(ctx, &domain.User{Name: "Ana 2", Email: "ANA@x.com", PasswordHash: "h", Role: domain.RoleClient})
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)

		byEmail, err := repo.FindByEmail(ctx, "ana@X.COM")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.PasswordHash)

		_, err = repo.FindByID(ctx, "not-an-object-id")
		require.ErrorIs(t, err, domain.ErrNotFound)

		updated, err := repo.UpdateRole(ctx, created.ID, domain.RoleAttorney)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAttorney, updated.Role)

		_, err = repo.Create(ctx, &domain.User{
			Name: "Bo", Email: "bo@x.com", PasswordHash: "h", Role: domain.RoleClient,
			CreatedAt: now.Add(time.Minute),
		})
		require.NoError(t, err)

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "bo@x.com", users[0].Email)
	})

	t.Run("directory", func(t *testing.T) {
		lawyers := NewLawyerRepository(db)
		sectors := NewExpertiseRepository(db)

		a, err := lawyers.Insert(ctx, &domain.Lawyer{Name: "Laura (Family)", Sectors: []string{"Family Law"}, Rating: 4.2, Available: true})
		require.NoError(t, err)
		_, err = lawyers.Insert(ctx, &domain.Lawyer{Name: "Mario", Sectors: []string{"Family Law", "Tax Law"}, Rating: 4.8})
		require.NoError(t, err)

		family, err := lawyers.List(ctx, ports.LawyerFilter{Sector: "Family Law"})
		require.NoError(t, err)
		require.Len(t, family, 2)
		assert.Equal(t, "Mario", family[0].Name)

		literal, err := lawyers.List(ctx, ports.LawyerFilter{Search: "(family"})
		require.NoError(t, err)
		require.Len(t, literal, 1)
		assert.Equal(t, a.ID, literal[0].ID)

		n, err := lawyers.CountBySector(ctx, "Family Law")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		_, err = sectors.Create(ctx, &domain.Expertise{Name: "Family Law", Icon: domain.DefaultSectorIcon})
		require.NoError(t, err)
		_, err = sectors.Create(ctx, &domain.Expertise{Name: "Family Law"})
		require.ErrorIs(t, err, domain.ErrDuplicateSector)

		require.NoError(t, sectors.SetLawyerCount(ctx, "Family Law", n))
		got, err := sectors.FindByName(ctx, "Family Law")
		require.NoError(t, err)
		assert.Equal(t, 2, got.LawyerCount)

		moved, err := lawyers.UpdateSectors(ctx, a.ID, []string{"Criminal Law"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Criminal Law"}, moved.Sectors)

		byID, err := sectors.FindByID(ctx, got.ID)
		require.NoError(t, err)
		assert.Equal(t, "Family Law", byID.Name)
		_, err = sectors.FindByID(ctx, "not-an-id")
		require.ErrorIs(t, err, domain.ErrNotFound)

		changed, err := lawyers.RenameSector(ctx, "Criminal Law", "Litigation")
		require.NoError(t, err)
		assert.Equal(t, int64(1), changed)
		renamed, err := lawyers.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Litigation"}, renamed.Sectors)

		// Mario lists both names; the merge leaves a single entry
		_, err = lawyers.RenameSector(ctx, "Tax Law", "Family Law")
		require.NoError(t, err)
		merged, err := lawyers.List(ctx, ports.LawyerFilter{Search: "mario"})
		require.NoError(t, err)
		require.Len(t, merged, 1)
		assert.Equal(t, []string{"Family Law"}, merged[0].Sectors)

		require.ErrorIs(t, sectors.Delete(ctx, "64b000000000000000000000"), domain.ErrNotFound)
	})

	t.Run("bookings", func(t *testing.T) {
		repo := NewBookingRepository(db)
		base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

		first, err := repo.Create(ctx, &domain.Booking{UserID: "u1", LawyerID: "l1", Date: base})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingPending, first.Status)
		_, err = repo.Create(ctx, &domain.Booking{UserID: "u1", LawyerID: "l2", Date: base.Add(time.Hour)})
		require.NoError(t, err)

		list, err := repo.ListByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "l2", list[0].LawyerID)

		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, found.Date.Equal(base))
	})
}

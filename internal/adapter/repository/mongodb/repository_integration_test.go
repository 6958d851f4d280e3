package mongodb

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testDB *mongo.Database

// TestMain starts a throwaway MongoDB. When Docker is not reachable the
// integration tests are skipped and the unit tests in this package still run.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() || os.Getenv("SKIP_DOCKER_TESTS") != "" {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("Docker unavailable, skipping MongoDB integration tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Printf("Could not start MongoDB resource, skipping integration tests: %v", err)
		os.Exit(m.Run())
	}
	_ = resource.Expire(300)

	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))
	var client *mongo.Client
	pool.MaxWait = 60 * time.Second
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return client.Ping(context.Background(), nil)
	}); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database("meraroom_test")

	code := m.Run()

	_ = client.Disconnect(context.Background())
	_ = pool.Purge(resource)
	os.Exit(code)
}

func requireDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testDB == nil {
		t.Skip("MongoDB not available")
	}
	require.NoError(t, testDB.Drop(context.Background()))
	return testDB
}

func seedListing(t *testing.T, repo *AccommodationRepository, owner primitive.ObjectID, rent float64, available bool, created time.Time, city string) *domain.Accommodation {
	t.Helper()
	a := &domain.Accommodation{
		OwnerID:             owner,
		PropertyType:        domain.PropertyPG,
		Address:             "12 Park Street",
		City:                city,
		Landmark:            "Metro",
		TotalRooms:          2,
		Photos:              []string{"/uploads/propertyPhotos-1.jpg"},
		Description:         "Quiet rooms, good for upsc aspirants",
		MessFacility:        domain.MessIncluded,
		AvailableFrom:       created,
		RentAmount:          rent,
		SecurityDeposit:     rent,
		AgreementTerms:      domain.AgreementMonthly,
		IsAvailable:         available,
		PreferredTenantType: []string{"Student"},
	}
	a.Prepare(created)
	require.NoError(t, a.Validate())
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestAccommodationSearchProperties(t *testing.T) {
	db := requireDB(t)
	repo, err := NewAccommodationRepository(db, logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	owner := primitive.NewObjectID()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rents := []float64{4000, 5000, 7500, 10000, 12000, 20000, 25000}
	for i, rent := range rents {
		seedListing(t, repo, owner, rent, true, base.Add(time.Duration(i)*time.Hour), "Pune")
	}
	seedListing(t, repo, owner, 8000, false, base, "Pune")
	seedListing(t, repo, owner, 30000, false, base, "Pune")

	t.Run("count matches fetch predicate", func(t *testing.T) {
		for _, raw := range []string{"", "budget=5000-10000", "budget=20000+", "location=pun&limit=2", "type=flat"} {
			v, err := url.ParseQuery(raw)
			require.NoError(t, err)
			v.Set("limit", "50")
			q, _ := domain.ParseListingQuery(v)
			items, total, err := repo.Search(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, int64(len(items)), total, raw)
		}
	})

	t.Run("budget at least", func(t *testing.T) {
		q, _ := domain.ParseListingQuery(url.Values{"budget": {"20000+"}})
		items, total, err := repo.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, it := range items {
			assert.GreaterOrEqual(t, it.RentAmount, 20000.0)
		}
	})

	t.Run("budget range inclusive", func(t *testing.T) {
		q, _ := domain.ParseListingQuery(url.Values{"budget": {"5000-10000"}})
		items, total, err := repo.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		for _, it := range items {
			assert.True(t, it.RentAmount >= 5000 && it.RentAmount <= 10000)
		}
	})

	t.Run("unavailable excluded", func(t *testing.T) {
		q, _ := domain.ParseListingQuery(url.Values{"limit": {"50"}, "isAvailable": {"false"}})
		items, total, err := repo.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(len(rents)), total)
		for _, it := range items {
			assert.True(t, it.IsAvailable)
		}
	})

	t.Run("sort orders", func(t *testing.T) {
		q, _ := domain.ParseListingQuery(url.Values{"sort": {"price-low"}, "limit": {"50"}})
		items, _, err := repo.Search(ctx, q)
		require.NoError(t, err)
		for i := 1; i < len(items); i++ {
			assert.LessOrEqual(t, items[i-1].RentAmount, items[i].RentAmount)
		}

		q, _ = domain.ParseListingQuery(url.Values{"sort": {"newest"}, "limit": {"50"}})
		items, _, err = repo.Search(ctx, q)
		require.NoError(t, err)
		for i := 1; i < len(items); i++ {
			assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt))
		}
	})

	t.Run("pagination", func(t *testing.T) {
		q, _ := domain.ParseListingQuery(url.Values{"page": {"2"}, "limit": {"3"}, "sort": {"price-low"}})
		items, total, err := repo.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		require.Len(t, items, 3)
		assert.Equal(t, 10000.0, items[0].RentAmount)
	})

	t.Run("tenant type and keyword", func(t *testing.T) {
		q, _ := domain.ParseListingQuery(url.Values{"roommatePref": {"student"}})
		_, total, err := repo.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)

		q, _ = domain.ParseListingQuery(url.Values{"roommatePref": {"working"}})
		_, total, err = repo.Search(ctx, q)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestAccommodationIncrementOccupancy(t *testing.T) {
	db := requireDB(t)
	repo, err := NewAccommodationRepository(db, logger.NewNop())
	require.NoError(t, err)

	a := seedListing(t, repo, primitive.NewObjectID(), 5000, true, time.Now().UTC(), "Delhi")

	got, err := repo.IncrementOccupancy(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentOccupancy)
	assert.True(t, got.IsAvailable)

	got, err = repo.IncrementOccupancy(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentOccupancy)
	assert.False(t, got.IsAvailable)
}

func TestBookingActivePairUniqueness(t *testing.T) {
	db := requireDB(t)
	repo, err := NewBookingRepository(db, logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	acc := &domain.Accommodation{ID: primitive.NewObjectID(), OwnerID: primitive.NewObjectID()}
	seeker := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first, err := domain.NewBookingRequest(seeker, acc, "", now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := domain.NewBookingRequest(seeker, acc, "", now)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, second), domain.ErrConflict)

	found, err := repo.FindActive(ctx, seeker, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	require.NoError(t, first.Transition(domain.BookingRejected, now, nil))
	require.NoError(t, repo.UpdateStatus(ctx, first, domain.BookingPending))

	_, err = repo.FindActive(ctx, seeker, acc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	third, err := domain.NewBookingRequest(seeker, acc, "again", now)
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, third))

	n, err := repo.CountActiveForAccommodation(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBookingConcurrentCreateSingleWinner(t *testing.T) {
	db := requireDB(t)
	repo, err := NewBookingRepository(db, logger.NewNop())
	require.NoError(t, err)

	acc := &domain.Accommodation{ID: primitive.NewObjectID(), OwnerID: primitive.NewObjectID()}
	seeker := primitive.NewObjectID()

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := domain.NewBookingRequest(seeker, acc, "", time.Now().UTC())
			if err != nil {
				results <- err
				return
			}
			results <- repo.Create(context.Background(), req)
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrConflict)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestBookingUpdateStatusCompareAndSwap(t *testing.T) {
	db := requireDB(t)
	repo, err := NewBookingRepository(db, logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	acc := &domain.Accommodation{ID: primitive.NewObjectID(), OwnerID: primitive.NewObjectID()}
	req, err := domain.NewBookingRequest(primitive.NewObjectID(), acc, "", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, req))

	accepted := *req
	require.NoError(t, accepted.Transition(domain.BookingAccepted, time.Now().UTC(), nil))
	require.NoError(t, repo.UpdateStatus(ctx, &accepted, domain.BookingPending))

	rejected := *req
	require.NoError(t, rejected.Transition(domain.BookingRejected, time.Now().UTC(), nil))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, &rejected, domain.BookingPending), domain.ErrConflict)

	stored, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, stored.Status)
	assert.NotNil(t, stored.AcceptedAt)
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	db := requireDB(t)
	repo, err := NewUserRepository(db, logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	seeker, err := domain.NewUser("Asha", "asha@example.com", "9123456789", "hash", &domain.SeekerProfile{
		Hometown: "Patna", UserType: domain.UserTypeStudent, College: "DU",
		FatherName: "R", FatherContact: "9876543210",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, seeker))

	dup, err := domain.NewUser("Other", "ASHA@example.com", "9123456780", "hash", &domain.OwnerProfile{PermanentAddress: "x"})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, "Asha@Example.com")
	require.NoError(t, err)
	p, ok := got.Seeker()
	require.True(t, ok)
	assert.Equal(t, "DU", p.College)
	assert.Equal(t, "hash", got.PasswordHash)

	standards := []string{"night-owl", "vegan"}
	info := "Prefers a quiet floor"
	updated, err := repo.UpdatePreferences(ctx, seeker.ID, &standards, &info)
	require.NoError(t, err)
	assert.Equal(t, standards, updated.LivingStandards)
	assert.Equal(t, info, updated.AdditionalInfo)

	users, err := repo.FindByIDs(ctx, []primitive.ObjectID{seeker.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

package repositories

import (
	"context"
	"testing"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func TestUserRepository_FindByLoginMatchesUsernameOrEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := testutil.CreateUser(t, db, "anna", domain.RoleBusiness)
	second := &models.User{Username: "anna", Email: "other@example.com", Password: "x", Type: domain.RoleCustomer}
	require.NoError(t, repo.Create(ctx, second))

	users, err := repo.FindByLogin(ctx, "anna")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, first.ID, users[0].ID)

	users, err = repo.FindByLogin(ctx, "other@example.com")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, second.ID, users[0].ID)

	exists, err := repo.ExistsByEmail(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_DuplicateEmailRejected(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)

	testutil.CreateUser(t, db, "anna", domain.RoleBusiness)
	err := repo.Create(context.Background(), &models.User{
		Username: "anna2", Email: "anna@example.com", Password: "x", Type: domain.RoleCustomer,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_ListAndCountByType(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	testutil.CreateUser(t, db, "b1", domain.RoleBusiness)
	testutil.CreateUser(t, db, "b2", domain.RoleBusiness)
	testutil.CreateUser(t, db, "c1", domain.RoleCustomer)

	business, err := repo.ListByType(ctx, domain.RoleBusiness)
	require.NoError(t, err)
	assert.Len(t, business, 2)

	n, err := repo.CountByType(ctx, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAuthTokenRepository_OneSessionPerUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAuthTokenRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "anna", domain.RoleCustomer)

	require.NoError(t, repo.Create(ctx, &models.AuthToken{UserID: user.ID, TokenID: "tok-1"}))
	err := repo.Create(ctx, &models.AuthToken{UserID: user.ID, TokenID: "tok-2"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := repo.GetByTokenID(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "anna", found.User.Username)

	require.NoError(t, repo.DeleteByUserID(ctx, user.ID))
	_, err = repo.GetByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOfferRepository_CreateWithDetails(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOfferRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "biz", domain.RoleBusiness)

	offer := &models.Offer{
		UserID: owner.ID,
		Title:  "Logo design",
		Details: []models.OfferDetail{
			{Title: "Basic", Revisions: 1, DeliveryTimeInDays: 5, Price: 100, OfferType: domain.OfferTypeBasic},
			{Title: "Standard", Revisions: 3, DeliveryTimeInDays: 4, Price: 200, OfferType: domain.OfferTypeStandard},
			{Title: "Premium", Revisions: 5, DeliveryTimeInDays: 2, Price: 500, OfferType: domain.OfferTypePremium},
		},
	}
	require.NoError(t, repo.CreateWithDetails(ctx, offer))
	require.NotZero(t, offer.ID)

	loaded, err := repo.GetByID(ctx, offer.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Details, 3)
	assert.Equal(t, 100, *loaded.MinPrice())
	assert.Equal(t, 2, *loaded.MinDeliveryTime())
	assert.Equal(t, "biz", loaded.User.Username)
}

func TestOfferRepository_CreateWithDetailsRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOfferRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "biz", domain.RoleBusiness)

	// two basic tiers violate the (offer_id, offer_type) unique index
	offer := &models.Offer{
		UserID: owner.ID,
		Title:  "Broken",
		Details: []models.OfferDetail{
			{Title: "A", Revisions: 1, DeliveryTimeInDays: 5, Price: 100, OfferType: domain.OfferTypeBasic},
			{Title: "B", Revisions: 1, DeliveryTimeInDays: 5, Price: 100, OfferType: domain.OfferTypeBasic},
			{Title: "C", Revisions: 1, DeliveryTimeInDays: 5, Price: 100, OfferType: domain.OfferTypePremium},
		},
	}
	require.Error(t, repo.CreateWithDetails(ctx, offer))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOfferRepository_ListFiltersAndOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOfferRepository(db)
	ctx := context.Background()
	b1 := testutil.CreateUser(t, db, "b1", domain.RoleBusiness)
	b2 := testutil.CreateUser(t, db, "b2", domain.RoleBusiness)

	cheap := testutil.CreateOffer(t, db, b1, "Website", [3]int{10, 20, 30}, [3]int{7, 5, 3})
	mid := testutil.CreateOffer(t, db, b1, "Logo", [3]int{50, 60, 70}, [3]int{10, 8, 6})
	pricey := testutil.CreateOffer(t, db, b2, "App", [3]int{100, 200, 300}, [3]int{30, 20, 14})

	offers, total, err := repo.List(ctx, OfferFilter{Ordering: "-min_price"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, offers, 3)
	assert.Equal(t, []uint{pricey.ID, mid.ID, cheap.ID}, []uint{offers[0].ID, offers[1].ID, offers[2].ID})

	offers, total, err = repo.List(ctx, OfferFilter{MinPrice: intPtr(50), Ordering: "min_price"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, mid.ID, offers[0].ID)

	uid := b1.ID
	_, total, err = repo.List(ctx, OfferFilter{UserID: &uid}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	offers, _, err = repo.List(ctx, OfferFilter{MaxDeliveryTime: intPtr(6)}, 0, 10)
	require.NoError(t, err)
	require.Len(t, offers, 2)

	offers, _, err = repo.List(ctx, OfferFilter{MinDeliveryTime: intPtr(14)}, 0, 10)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, pricey.ID, offers[0].ID)

	offers, _, err = repo.List(ctx, OfferFilter{Search: "LOGO"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, mid.ID, offers[0].ID)

	offers, total, err = repo.List(ctx, OfferFilter{Ordering: "min_price"}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, offers, 1)
	assert.Equal(t, pricey.ID, offers[0].ID)
}

func TestOfferRepository_SearchMatchesWildcardsLiterally(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOfferRepository(db)
	ctx := context.Background()
	b := testutil.CreateUser(t, db, "b", domain.RoleBusiness)

	percent := testutil.CreateOffer(t, db, b, "100% handmade", [3]int{1, 2, 3}, [3]int{3, 2, 1})
	underscore := testutil.CreateOffer(t, db, b, "logo_v2", [3]int{1, 2, 3}, [3]int{3, 2, 1})
	bang := testutil.CreateOffer(t, db, b, "Wow!", [3]int{1, 2, 3}, [3]int{3, 2, 1})
	testutil.CreateOffer(t, db, b, "Plain site", [3]int{1, 2, 3}, [3]int{3, 2, 1})

	cases := map[string][]uint{
		"%":      {percent.ID},
		"_":      {underscore.ID},
		"!":      {bang.ID},
		"o_v":    {underscore.ID},
		"100%":   {percent.ID},
		"0% h":   {percent.ID},
		"logo%2": nil,
	}
	for search, want := range cases {
		offers, total, err := repo.List(ctx, OfferFilter{Search: search, Ordering: DefaultOfferOrdering}, 0, 10)
		require.NoError(t, err, search)
		assert.Equal(t, int64(len(want)), total, search)
		var got []uint
		for _, o := range offers {
			got = append(got, o.ID)
		}
		assert.Equal(t, want, got, search)
	}
}

func TestOfferRepository_UpdateWithDetails(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOfferRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "biz", domain.RoleBusiness)
	created := testutil.CreateOffer(t, db, owner, "Website", [3]int{10, 20, 30}, [3]int{7, 5, 3})

	offer, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	offer.Title = "Website v2"
	basic := offer.DetailByType(domain.OfferTypeBasic)
	basic.Price = 15

	require.NoError(t, repo.UpdateWithDetails(ctx, offer, []*models.OfferDetail{basic}))

	reloaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website v2", reloaded.Title)
	assert.Equal(t, 15, reloaded.DetailByType(domain.OfferTypeBasic).Price)
	assert.Equal(t, 20, reloaded.DetailByType(domain.OfferTypeStandard).Price)
}

func TestOfferRepository_DeleteBlockedByOrders(t *testing.T) {
	db := testutil.NewDB(t)
	offers := NewOfferRepository(db)
	orders := NewOrderRepository(db)
	ctx := context.Background()
	biz := testutil.CreateUser(t, db, "biz", domain.RoleBusiness)
	cust := testutil.CreateUser(t, db, "cust", domain.RoleCustomer)
	ordered := testutil.CreateOffer(t, db, biz, "Ordered", [3]int{10, 20, 30}, [3]int{7, 5, 3})
	free := testutil.CreateOffer(t, db, biz, "Free", [3]int{10, 20, 30}, [3]int{7, 5, 3})

	detail := ordered.Details[0]
	require.NoError(t, orders.Create(ctx, &models.Order{
		CustomerUserID: cust.ID, BusinessUserID: biz.ID, OfferDetailID: detail.ID,
		Title: detail.Title, Revisions: detail.Revisions, DeliveryTimeInDays: detail.DeliveryTimeInDays,
		Price: detail.Price, Features: detail.Features, OfferType: detail.OfferType,
	}))

	assert.ErrorIs(t, offers.Delete(ctx, ordered.ID), ErrReferenced)
	require.NoError(t, offers.Delete(ctx, free.ID))
	assert.ErrorIs(t, offers.Delete(ctx, free.ID), gorm.ErrRecordNotFound)

	_, err := offers.GetDetailByID(ctx, free.Details[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	owner, err := offers.GetDetailOwnerID(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, biz.ID, owner)
}

func TestOrderRepository_StatusAndCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	biz := testutil.CreateUser(t, db, "biz", domain.RoleBusiness)
	cust := testutil.CreateUser(t, db, "cust", domain.RoleCustomer)
	other := testutil.CreateUser(t, db, "other", domain.RoleCustomer)
	offer := testutil.CreateOffer(t, db, biz, "Website", [3]int{10, 20, 30}, [3]int{7, 5, 3})

	newOrder := func(detail models.OfferDetail) *models.Order {
		o := &models.Order{
			CustomerUserID: cust.ID, BusinessUserID: biz.ID, OfferDetailID: detail.ID,
			Title: detail.Title, Revisions: detail.Revisions, DeliveryTimeInDays: detail.DeliveryTimeInDays,
			Price: detail.Price, Features: detail.Features, OfferType: detail.OfferType,
			Status: domain.OrderStatusInProgress,
		}
		require.NoError(t, repo.Create(ctx, o))
		return o
	}
	first := newOrder(offer.Details[0])
	second := newOrder(offer.Details[1])

	require.NoError(t, repo.UpdateStatus(ctx, first.ID, domain.OrderStatusCompleted))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 9999, domain.OrderStatusCompleted), gorm.ErrRecordNotFound)

	n, err := repo.CountByBusinessAndStatus(ctx, biz.ID, domain.OrderStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = repo.CountByBusinessAndStatus(ctx, biz.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := repo.ListByParticipant(ctx, biz.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	list, err = repo.ListByParticipant(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Delete(ctx, second.ID))
	assert.ErrorIs(t, repo.Delete(ctx, second.ID), gorm.ErrRecordNotFound)
}

func TestReviewRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()
	b1 := testutil.CreateUser(t, db, "b1", domain.RoleBusiness)
	b2 := testutil.CreateUser(t, db, "b2", domain.RoleBusiness)
	c1 := testutil.CreateUser(t, db, "c1", domain.RoleCustomer)
	c2 := testutil.CreateUser(t, db, "c2", domain.RoleCustomer)

	count, avg, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, avg)

	r1 := &models.Review{BusinessUserID: b1.ID, ReviewerID: c1.ID, Rating: 4, Description: "good"}
	require.NoError(t, repo.Create(ctx, r1))
	require.NoError(t, repo.Create(ctx, &models.Review{BusinessUserID: b1.ID, ReviewerID: c2.ID, Rating: 5}))
	require.NoError(t, repo.Create(ctx, &models.Review{BusinessUserID: b2.ID, ReviewerID: c1.ID, Rating: 2}))

	err = repo.Create(ctx, &models.Review{BusinessUserID: b1.ID, ReviewerID: c1.ID, Rating: 1})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := repo.ExistsForPair(ctx, c1.ID, b1.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	bid := b1.ID
	list, err := repo.List(ctx, ReviewFilter{BusinessUserID: &bid, Ordering: "-rating"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 5, list[0].Rating)

	rid := c1.ID
	list, err = repo.List(ctx, ReviewFilter{ReviewerID: &rid, Ordering: "rating"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Rating)

	r1.Rating = 3
	r1.Description = "ok"
	require.NoError(t, repo.Update(ctx, r1))
	got, err := repo.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Rating)
	assert.Equal(t, "ok", got.Description)

	count, avg, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.InDelta(t, 10.0/3.0, avg, 0.0001)

	require.NoError(t, repo.Delete(ctx, r1.ID))
	assert.ErrorIs(t, repo.Delete(ctx, r1.ID), gorm.ErrRecordNotFound)
}

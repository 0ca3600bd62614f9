package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/adapters/persistence/repositories"
	"coderr-backend/internal/config"
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/pkg/password"
	"coderr-backend/internal/pkg/storage"
	"coderr-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	store    *storage.LocalStore
	mediaDir string
	auth    *AuthService
	profile *ProfileService
	offers  *OfferService
	orders  *OrderService
	reviews *ReviewService
	stats   *StatsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "test-secret", Issuer: "coderr-test"},
	}
	mediaDir := t.TempDir()
	store := storage.NewLocalStore(mediaDir, "/media", 1024*1024)

	userRepo := repositories.NewUserRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	return &fixture{
		db:       db,
		store:    store,
		mediaDir: mediaDir,
		auth:    NewAuthService(userRepo, repositories.NewAuthTokenRepository(db), cfg),
		profile: NewProfileService(userRepo, store),
		offers:  NewOfferService(offerRepo, store),
		orders:  NewOrderService(orderRepo, offerRepo, userRepo),
		reviews: NewReviewService(reviewRepo, userRepo),
		stats:   NewStatsService(userRepo, offerRepo, reviewRepo),
	}
}

func intp(v int) *int       { return &v }
func uintp(v uint) *uint    { return &v }
func strp(v string) *string { return &v }

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

func detailInputs(prices [3]int) []OfferDetailInput {
	types := []string{"basic", "standard", "premium"}
	out := make([]OfferDetailInput, 0, 3)
	for i, ot := range types {
		out = append(out, OfferDetailInput{
			Title:              ot,
			Revisions:          intp(i),
			DeliveryTimeInDays: intp(7 - i*2),
			Price:              intp(prices[i]),
			Features:           []string{ot + " feature"},
			OfferType:          ot,
		})
	}
	return out
}

func imageHeader(t *testing.T, field, filename string, size int) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(int64(size)+1024))
	return req.MultipartForm.File[field][0]
}

// ============================================================
// Auth
// ============================================================

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, &RegisterInput{
		Username: "anna", Email: "anna@example.com",
		Password: "pw123456", RepeatedPassword: "pw123456", Type: "business",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, domain.RoleBusiness, reg.Type)

	login, err := f.auth.Login(ctx, &LoginInput{Username: "anna", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, reg.Token, login.Token, "repeated logins reuse the session token")
	assert.Equal(t, reg.UserID, login.UserID)

	byEmail, err := f.auth.Login(ctx, &LoginInput{Username: "anna@example.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, reg.Token, byEmail.Token)

	user, err := f.auth.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "anna", user.Username)

	require.NoError(t, f.auth.Logout(ctx, user.ID))
	_, err = f.auth.Authenticate(ctx, login.Token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	fresh, err := f.auth.Login(ctx, &LoginInput{Username: "anna", Password: "pw123456"})
	require.NoError(t, err)
	assert.NotEqual(t, login.Token, fresh.Token)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, &RegisterInput{
		Username: "anna", Email: "anna@example.com",
		Password: "a", RepeatedPassword: "b", Type: "customer",
	})
	assert.Contains(t, fieldErrors(t, err), "password")

	_, err = f.auth.Register(ctx, &RegisterInput{
		Username: "anna", Email: "not-an-email",
		Password: "a", RepeatedPassword: "a", Type: "admin",
	})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "type")

	in := &RegisterInput{
		Username: "anna", Email: "anna@example.com",
		Password: "a", RepeatedPassword: "a", Type: "customer",
	}
	_, err = f.auth.Register(ctx, in)
	require.NoError(t, err)

	in.Username = "other"
	_, err = f.auth.Register(ctx, in)
	assert.Equal(t, []string{"Email already exists."}, fieldErrors(t, err)["email"])
}

func TestAuthService_LoginTriesEveryUsernameMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, email := range []string{"one@example.com", "two@example.com"} {
		_, err := f.auth.Register(ctx, &RegisterInput{
			Username: "sam", Email: email,
			Password: email, RepeatedPassword: email, Type: "customer",
		})
		require.NoError(t, err)
	}

	res, err := f.auth.Login(ctx, &LoginInput{Username: "sam", Password: "two@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "two@example.com", res.Email)

	_, err = f.auth.Login(ctx, &LoginInput{Username: "sam", Password: "wrong"})
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")
}

func TestAuthService_LoginUpgradesHashCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "old", domain.RoleCustomer)

	password.Cost = bcrypt.MinCost + 1
	defer func() { password.Cost = bcrypt.MinCost }()

	_, err := f.auth.Login(ctx, &LoginInput{Username: "old", Password: "secret123"})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, f.db.First(&stored, user.ID).Error)
	cost, err := bcrypt.Cost([]byte(stored.Password))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
	assert.True(t, password.Verify("secret123", stored.Password))
}

func TestAuthService_AuthenticateRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

// ============================================================
// Profiles
// ============================================================

func TestProfileService_UpdateAllowListAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	anna := testutil.CreateUser(t, f.db, "anna", domain.RoleBusiness)
	bob := testutil.CreateUser(t, f.db, "bob", domain.RoleCustomer)

	_, err := f.profile.Update(ctx, bob.Actor(), anna.ID, &UpdateProfileInput{FirstName: strp("Hacked")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	view, err := f.profile.Update(ctx, anna.Actor(), anna.ID, &UpdateProfileInput{
		FirstName: strp("Anna"), Location: strp("Berlin"), WorkingHours: strp("9-17"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Anna", view.FirstName)
	assert.Equal(t, "Berlin", view.Location)
	assert.Equal(t, "9-17", view.WorkingHours)
	assert.Equal(t, "anna@example.com", view.Email)
	assert.Equal(t, domain.RoleBusiness, view.Type)

	_, err = f.profile.Get(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileService_UploadAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	anna := testutil.CreateUser(t, f.db, "anna", domain.RoleCustomer)

	view, err := f.profile.UploadAvatar(ctx, anna.Actor(), anna.ID, imageHeader(t, "file", "me.png", 64))
	require.NoError(t, err)
	assert.Regexp(t, `^/media/profiles/[0-9a-f-]+\.png$`, view.File)

	_, err = f.profile.UploadAvatar(ctx, anna.Actor(), anna.ID, imageHeader(t, "file", "me.exe", 64))
	assert.Contains(t, fieldErrors(t, err), "file")
}

func TestProfileService_ListByRole(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "b1", domain.RoleBusiness)
	testutil.CreateUser(t, f.db, "c1", domain.RoleCustomer)
	testutil.CreateUser(t, f.db, "c2", domain.RoleCustomer)

	items, err := f.profile.ListByRole(context.Background(), domain.RoleCustomer)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "c1", items[0].Username)
}

// ============================================================
// Offers
// ============================================================

func TestOfferService_CreateComputesMinimums(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	biz := testutil.CreateUser(t, f.db, "biz", domain.RoleBusiness)

	view, err := f.offers.Create(ctx, biz.Actor(), &CreateOfferInput{
		Title: "Website", Description: "A site", Details: detailInputs([3]int{10, 20, 30}),
	}, nil)
	require.NoError(t, err)
	require.Len(t, view.Details, 3)
	assert.Equal(t, 10, *view.MinPrice)
	assert.Equal(t, 3, *view.MinDeliveryTime)

	item, err := f.offers.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, *item.MinPrice)
	assert.Equal(t, "biz", item.UserDetails.Username)
	assert.Equal(t, "/offerdetails/"+uintStr(view.Details[0].ID)+"/", item.Details[0].URL)
}

func TestOfferService_CreateRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	biz := testutil.CreateUser(t, f.db, "biz", domain.RoleBusiness)
	cust := testutil.CreateUser(t, f.db, "cust", domain.RoleCustomer)

	_, err := f.offers.Create(ctx, cust.Actor(), &CreateOfferInput{
		Title: "Nope", Details: detailInputs([3]int{1, 2, 3}),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.offers.Create(ctx, biz.Actor(), &CreateOfferInput{
		Title: "Too few", Details: detailInputs([3]int{1, 2, 3})[:2],
	}, nil)
	assert.Contains(t, fieldErrors(t, err), "details")

	dup := detailInputs([3]int{1, 2, 3})
	dup[1].OfferType = "basic"
	_, err = f.offers.Create(ctx, biz.Actor(), &CreateOfferInput{Title: "Dup", Details: dup}, nil)
	assert.Contains(t, fieldErrors(t, err), "details")

	bad := detailInputs([3]int{1, 2, 3})
	bad[2].Price = intp(-5)
	_, err = f.offers.Create(ctx, biz.Actor(), &CreateOfferInput{Title: "Bad", Details: bad}, nil)
	assert.Contains(t, fieldErrors(t, err), "details[2].price")

	var count int64
	require.NoError(t, f.db.Model(&models.Offer{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOfferService_CreateWithImageUpload(t *testing.T) {
	f := newFixture(t)
	biz := testutil.CreateUser(t, f.db, "biz", domain.RoleBusiness)

	view, err := f.offers.Create(context.Background(), biz.Actor(), &CreateOfferInput{
		Title: "Logo", Details: detailInputs([3]int{1, 2, 3}),
	}, imageHeader(t, "image", "logo.jpg", 128))
	require.NoError(t, err)
	assert.Regexp(t, `^/media/offers/[0-9a-f-]+\.jpg$`, view.Image)
}

func TestOfferService_ImageReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	biz := testutil.CreateUser(t, f.db, "biz", domain.RoleBusiness)

	_, err := f.offers.Create(ctx, biz.Actor(), &CreateOfferInput{
		Title: "Key", Image: "offers/someone-else.png", Details: detailInputs([3]int{1, 2, 3}),
	}, nil)
	assert.Contains(t, fieldErrors(t, err), "image")

	view, err := f.offers.Create(ctx, biz.Actor(), &CreateOfferInput{
		Title: "Hosted", Image: "https://cdn.example.com/a.png", Details: detailInputs([3]int{1, 2, 3}),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", view.Image)

	_, err = f.offers.Update(ctx, biz.Actor(), view.ID, &UpdateOfferInput{Image: strp("profiles/avatar.png")}, nil)
	assert.Contains(t, fieldErrors(t, err), "image")

	updated, err := f.offers.Update(ctx, biz.Actor(), view.ID, &UpdateOfferInput{Image: strp("")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", updated.Image)
}

func TestRemoveMediaStaysInsideDir(t *testing.T) {
	f := newFixture(t)

	key, err := f.store.Save("profiles", imageHeader(t, "file", "me.png", 16))
	require.NoError(t, err)

	require.NoError(t, removeMedia(f.store, offerImageDir, key))
	require.NoError(t, removeMedia(f.store, offerImageDir, "https://cdn.example.com/"+key))
	assert.FileExists(t, filepath.Join(f.mediaDir, filepath.FromSlash(key)))

	require.NoError(t, removeMedia(f.store, avatarDir, key))
	assert.NoFileExists(t, filepath.Join(f.mediaDir, filepath.FromSlash(key)))
}

func TestOfferService_UpdateMatchesByType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	biz := testutil.CreateUser(t, f.db, "biz", domain.RoleBusiness)
	other := testutil.CreateUser(t, f.db, "other", domain.RoleBusiness)
	created := testutil.CreateOffer(t, f.db, biz, "Website", [3]int{10, 20, 30}, [3]int{7, 5, 3})

	_, err := f.offers.Update(ctx, other.Actor(), created.ID, &UpdateOfferInput{Title: strp("Stolen")}, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	view, err := f.offers.Update(ctx, biz.Actor(), created.ID, &UpdateOfferInput{
		Title: strp("Website v2"),
		Details: []OfferDetailPatch{
			{OfferType: "premium", Price: intp(5)},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Website v2", view.Title)
	assert.Equal(t, 5, *view.MinPrice)

	premium := created.Details[2]
	for _, d := range view.Details {
		if d.OfferType == domain.OfferTypePremium {
			assert.Equal(t, premium.ID, d.ID, "detail ids stay stable")
			assert.Equal(t, premium.Title, d.Title, "unsent keys keep their value")
		}
	}

	_, err = f.offers.Update(ctx, biz.Actor(), 9999, &UpdateOfferInput{}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOfferService_UpdateUnknownTypeRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	biz := testutil.CreateUser(t, f.db, "biz", domain.RoleBusiness)
	created := testutil.CreateOffer(t, f.db, biz, "Website", [3]int{10, 20, 30}, [3]int{7, 5, 3})

	// drop the premium tier so the patch references a missing type
	require.NoError(t, f.db.Where("offer_id = ? AND offer_type = ?", created.ID, "premium").
		Delete(&models.OfferDetail{}).Error)

	_, err := f.offers.Update(ctx, biz.Actor(), created.ID, &UpdateOfferInput{
		Title: strp("Changed"),
		Details: []OfferDetailPatch{
			{OfferType: "basic", Price: intp(1)},
			{OfferType: "premium", Price: intp(2)},
		},
	}, nil)
	assert.Contains(t, fieldErrors(t, err), "details")

	item, err := f.offers.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website", item.Title)
	assert.Equal(t, 10, *item.MinPrice)
}

func TestOfferService_DeleteProtectsOrderedOffers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	biz := testutil.CreateUser(t, f.db, "biz", domain.RoleBusiness)
	cust := testutil.CreateUser(t, f.db, "cust", domain.RoleCustomer)
	ordered := testutil.CreateOffer(t, f.db, biz, "Ordered", [3]int{10, 20, 30}, [3]int{7, 5, 3})
	free := testutil.CreateOffer(t, f.db, biz, "Free", [3]int{10, 20, 30}, [3]int{7, 5, 3})

	_, err := f.orders.Create(ctx, cust.Actor(), &CreateOrderInput{OfferDetailID: uintp(ordered.Details[0].ID)})
	require.NoError(t, err)

	assert.ErrorIs(t, f.offers.Delete(ctx, cust.Actor(), free.ID), domain.ErrForbidden)
	assert.ErrorIs(t, f.offers.Delete(ctx, biz.Actor(), ordered.ID), domain.ErrInvalidInput)
	require.NoError(t, f.offers.Delete(ctx, biz.Actor(), free.ID))

	_, err = f.offers.Get(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.offers.GetDetail(ctx, free.Details[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOfferService_ListRejectsUnknownOrdering(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.offers.List(context.Background(), &ListOffersInput{
		Filter: repositories.OfferFilter{Ordering: "title"}, Limit: 5,
	})
	assert.Contains(t, fieldErrors(t, err), "ordering")
}

// ============================================================
// Orders
// ============================================================

func TestOrderService_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := testutil.CreateUser(t, f.db, "b", domain.RoleBusiness)
	c := testutil.CreateUser(t, f.db, "c", domain.RoleCustomer)

	offer, err := f.offers.Create(ctx, b.Actor(), &CreateOfferInput{
		Title: "Website", Details: detailInputs([3]int{10, 20, 30}),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, *offer.MinPrice)

	var standard OfferDetailView
	for _, d := range offer.Details {
		if d.OfferType == domain.OfferTypeStandard {
			standard = d
		}
	}

	order, err := f.orders.Create(ctx, c.Actor(), &CreateOrderInput{OfferDetailID: uintp(standard.ID)})
	require.NoError(t, err)
	assert.Equal(t, 20, order.Price)
	assert.Equal(t, domain.OrderStatusInProgress, order.Status)
	assert.Equal(t, b.ID, order.BusinessUser)
	assert.Equal(t, c.ID, order.CustomerUser)

	// the snapshot does not follow later detail edits
	_, err = f.offers.Update(ctx, b.Actor(), offer.ID, &UpdateOfferInput{
		Details: []OfferDetailPatch{{OfferType: "standard", Price: intp(99), Title: strp("Renamed")}},
	}, nil)
	require.NoError(t, err)

	updated, err := f.orders.UpdateStatus(ctx, b.Actor(), order.ID, &UpdateOrderStatusInput{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)
	assert.Equal(t, 20, updated.Price)
	assert.Equal(t, standard.Title, updated.Title)

	n, err := f.orders.CountForBusiness(ctx, b.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = f.orders.CountForBusiness(ctx, b.ID, domain.OrderStatusInProgress)
	require.NoError(t, err)
	assert.Zero(t, n)

	second, err := f.orders.Create(ctx, c.Actor(), &CreateOrderInput{OfferDetailID: uintp(standard.ID)})
	require.NoError(t, err)
	assert.Equal(t, 99, second.Price)

	list, err := f.orders.List(ctx, c.Actor())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestOrderService_CreateRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := testutil.CreateUser(t, f.db, "b", domain.RoleBusiness)
	c := testutil.CreateUser(t, f.db, "c", domain.RoleCustomer)
	offer := testutil.CreateOffer(t, f.db, b, "Website", [3]int{10, 20, 30}, [3]int{7, 5, 3})

	_, err := f.orders.Create(ctx, c.Actor(), &CreateOrderInput{})
	assert.Contains(t, fieldErrors(t, err), "offer_detail_id")

	_, err = f.orders.Create(ctx, c.Actor(), &CreateOrderInput{OfferDetailID: uintp(9999)})
	assert.Contains(t, fieldErrors(t, err), "offer_detail_id")

	_, err = f.orders.Create(ctx, b.Actor(), &CreateOrderInput{OfferDetailID: uintp(offer.Details[0].ID)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// a customer row that owns an offer through seeded data still cannot self-order
	custOffer := testutil.CreateOffer(t, f.db, c, "Odd", [3]int{1, 2, 3}, [3]int{1, 2, 3})
	_, err = f.orders.Create(ctx, c.Actor(), &CreateOrderInput{OfferDetailID: uintp(custOffer.Details[0].ID)})
	assert.Equal(t, []string{"You cannot order your own offer."}, fieldErrors(t, err)["offer_detail_id"])
}

func TestOrderService_StatusAndDeletePermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := testutil.CreateUser(t, f.db, "b", domain.RoleBusiness)
	other := testutil.CreateUser(t, f.db, "other", domain.RoleBusiness)
	c := testutil.CreateUser(t, f.db, "c", domain.RoleCustomer)
	offer := testutil.CreateOffer(t, f.db, b, "Website", [3]int{10, 20, 30}, [3]int{7, 5, 3})

	order, err := f.orders.Create(ctx, c.Actor(), &CreateOrderInput{OfferDetailID: uintp(offer.Details[0].ID)})
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, other.Actor(), order.ID, &UpdateOrderStatusInput{Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.orders.UpdateStatus(ctx, c.Actor(), order.ID, &UpdateOrderStatusInput{Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.orders.UpdateStatus(ctx, b.Actor(), order.ID, &UpdateOrderStatusInput{Status: "shipped"})
	assert.Contains(t, fieldErrors(t, err), "status")
	_, err = f.orders.UpdateStatus(ctx, b.Actor(), 9999, &UpdateOrderStatusInput{Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.orders.Delete(ctx, b.Actor(), order.ID), domain.ErrForbidden)
	staff := c.Actor()
	staff.IsStaff = true
	require.NoError(t, f.orders.Delete(ctx, staff, order.ID))
	assert.ErrorIs(t, f.orders.Delete(ctx, staff, order.ID), domain.ErrNotFound)

	_, err = f.orders.CountForBusiness(ctx, c.ID, domain.OrderStatusInProgress)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.orders.CountForBusiness(ctx, 9999, domain.OrderStatusInProgress)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ============================================================
// Reviews & stats
// ============================================================

func TestReviewService_RatingBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := testutil.CreateUser(t, f.db, "b", domain.RoleBusiness)

	for _, rating := range []int{0, 6, -1} {
		c := testutil.CreateUser(t, f.db, "bad"+uintStr(uint(rating+10)), domain.RoleCustomer)
		_, err := f.reviews.Create(ctx, c.Actor(), &CreateReviewInput{BusinessUser: uintp(b.ID), Rating: intp(rating)})
		assert.Contains(t, fieldErrors(t, err), "rating", "rating %d", rating)
	}
	for rating := 1; rating <= 5; rating++ {
		c := testutil.CreateUser(t, f.db, "ok"+uintStr(uint(rating)), domain.RoleCustomer)
		_, err := f.reviews.Create(ctx, c.Actor(), &CreateReviewInput{BusinessUser: uintp(b.ID), Rating: intp(rating)})
		assert.NoError(t, err, "rating %d", rating)
	}
}

func TestReviewService_CreateRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := testutil.CreateUser(t, f.db, "b", domain.RoleBusiness)
	c := testutil.CreateUser(t, f.db, "c", domain.RoleCustomer)
	c2 := testutil.CreateUser(t, f.db, "c2", domain.RoleCustomer)

	_, err := f.reviews.Create(ctx, b.Actor(), &CreateReviewInput{BusinessUser: uintp(b.ID), Rating: intp(5)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.reviews.Create(ctx, c.Actor(), &CreateReviewInput{BusinessUser: uintp(c2.ID), Rating: intp(5)})
	assert.Contains(t, fieldErrors(t, err), "business_user")

	first, err := f.reviews.Create(ctx, c.Actor(), &CreateReviewInput{BusinessUser: uintp(b.ID), Rating: intp(4), Description: "good"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, first.Reviewer)

	// a different rating is still a duplicate of the same pair
	_, err = f.reviews.Create(ctx, c.Actor(), &CreateReviewInput{BusinessUser: uintp(b.ID), Rating: intp(1)})
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")
}

func TestReviewService_UpdateAndDeleteOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := testutil.CreateUser(t, f.db, "b", domain.RoleBusiness)
	c := testutil.CreateUser(t, f.db, "c", domain.RoleCustomer)
	c2 := testutil.CreateUser(t, f.db, "c2", domain.RoleCustomer)

	review, err := f.reviews.Create(ctx, c.Actor(), &CreateReviewInput{BusinessUser: uintp(b.ID), Rating: intp(4)})
	require.NoError(t, err)

	_, err = f.reviews.Update(ctx, c2.Actor(), review.ID, &UpdateReviewInput{Rating: intp(1)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.reviews.Update(ctx, c.Actor(), review.ID, &UpdateReviewInput{Rating: intp(9)})
	assert.Contains(t, fieldErrors(t, err), "rating")

	updated, err := f.reviews.Update(ctx, c.Actor(), review.ID, &UpdateReviewInput{Description: strp("changed")})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "changed", updated.Description)

	assert.ErrorIs(t, f.reviews.Delete(ctx, c2.Actor(), review.ID), domain.ErrForbidden)
	require.NoError(t, f.reviews.Delete(ctx, c.Actor(), review.ID))
	_, err = f.reviews.Get(ctx, review.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatsService_BaseInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.stats.BaseInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, &BaseInfo{}, info)

	b := testutil.CreateUser(t, f.db, "b", domain.RoleBusiness)
	testutil.CreateUser(t, f.db, "b2", domain.RoleBusiness)
	testutil.CreateOffer(t, f.db, b, "Website", [3]int{10, 20, 30}, [3]int{7, 5, 3})

	for i, rating := range []int{5, 4, 4} {
		c := testutil.CreateUser(t, f.db, "c"+uintStr(uint(i)), domain.RoleCustomer)
		_, err := f.reviews.Create(ctx, c.Actor(), &CreateReviewInput{BusinessUser: uintp(b.ID), Rating: intp(rating)})
		require.NoError(t, err)
	}

	info, err = f.stats.BaseInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.ReviewCount)
	assert.InDelta(t, 13.0/3, info.AverageRating, 1e-9)
	assert.Equal(t, int64(2), info.BusinessProfileCount)
	assert.Equal(t, int64(1), info.OfferCount)
}

func uintStr(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

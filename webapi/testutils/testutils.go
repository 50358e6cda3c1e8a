package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/accounts/infra"
	infraaccount "github.com/amirasaad/accounts/infra/repository/account"
	"github.com/amirasaad/accounts/pkg/app"
	"github.com/amirasaad/accounts/pkg/config"
	pkgtestutils "github.com/amirasaad/accounts/pkg/testutils"
	"github.com/amirasaad/accounts/webapi"
	"github.com/amirasaad/accounts/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// E2ETestSuite runs the HTTP API against a real Postgres database using Testcontainers
type E2ETestSuite struct {
	suite.Suite
	pgContainer *tcpostgres.PostgresContainer
	db          *gorm.DB
	app         *app.App
	fiberApp    *fiber.App
	cfg         *config.App
}

// startPostgresContainer starts a Postgres container using Testcontainers
func (s *E2ETestSuite) startPostgresContainer(ctx context.Context) (*tcpostgres.PostgresContainer, error) {
	return tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
}

// SetupSuite initializes the test suite with a real Postgres database
func (s *E2ETestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping Postgres end-to-end tests in short mode")
	}
	ctx := context.Background()

	pg, err := s.startPostgresContainer(ctx)
	s.Require().NoError(err)
	s.pgContainer = pg

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.cfg = pkgtestutils.TestConfig()
	s.cfg.Env = "test"
	s.cfg.DB.Url = dsn
	s.cfg.DB.MaxOpenConns = 10
	s.cfg.DB.MaxIdleConns = 10

	// Connects and migrates the accounts table
	s.db, err = infra.NewDBConnection(s.cfg.DB, s.cfg.Env)
	s.Require().NoError(err)

	s.app, _ = pkgtestutils.NewMemoryApp(infraaccount.New(s.db), s.cfg)
	s.fiberApp = webapi.SetupApp(s.app)
}

// SetupTest starts every test from an empty table
func (s *E2ETestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("DELETE FROM accounts").Error)
}

// TearDownSuite cleans up the test suite resources
func (s *E2ETestSuite) TearDownSuite() {
	ctx := context.Background()
	if s.app != nil {
		_ = s.app.Close()
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(ctx)
	}
}

// MakeRequest is a helper for making HTTP requests in tests
func (s *E2ETestSuite) MakeRequest(method, path, body string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := s.fiberApp.Test(req, 1000000)
	if err != nil {
		panic(err) // For standalone tests, panic on error
	}
	return resp
}

// CreateTestAccount creates an account with a random number via POST /accounts
// and returns its ID.
func (s *E2ETestSuite) CreateTestAccount(name string, balance float64) uuid.UUID {
	number := "E2E-" + uuid.NewString()[:8]
	body := fmt.Sprintf(`{"name":%q,"number":%q,"balance":%v}`, name, number, balance)
	resp := s.MakeRequest(http.MethodPost, "/accounts", body)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	var response common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	data, ok := response.Data.(map[string]any)
	s.Require().True(ok, "account should be present in response")
	idStr, ok := data["id"].(string)
	s.Require().True(ok, "account ID should be present in response")
	id, err := uuid.Parse(idStr)
	s.Require().NoError(err)
	return id
}

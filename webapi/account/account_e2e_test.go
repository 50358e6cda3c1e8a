package account_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/amirasaad/accounts/webapi/balance"
	"github.com/amirasaad/accounts/webapi/common"
	"github.com/amirasaad/accounts/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AccountE2ETestSuite struct {
	testutils.E2ETestSuite
}

func TestAccountE2ETestSuite(t *testing.T) {
	suite.Run(t, new(AccountE2ETestSuite))
}

func (s *AccountE2ETestSuite) TestAccountLifecycleEndToEnd() {
	// 1. Create accounts
	ids := make([]string, 0, 5)
	for _, bal := range []float64{100, 250, 50, 400, 25} {
		ids = append(ids, s.CreateTestAccount("E2E Holder", bal).String())
	}

	// 2. Total over Postgres
	resp := s.MakeRequest(http.MethodGet, "/balances/total?batch_size=2", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var total balance.TotalBalanceResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&total))
	s.True(decimal.NewFromInt(825).Equal(total.TotalBalance), "got %s", total.TotalBalance)

	// 3. Update a balance
	resp = s.MakeRequest(http.MethodPut, "/accounts/"+ids[0], `{"balance":0.5}`)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	// 4. Delete another
	resp = s.MakeRequest(http.MethodDelete, "/accounts/"+ids[1], "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	// 5. Total reflects both writes
	resp = s.MakeRequest(http.MethodGet, "/balances/total", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&total))
	s.True(decimal.RequireFromString("475.5").Equal(total.TotalBalance), "got %s", total.TotalBalance)

	// 6. List keeps creation order
	resp = s.MakeRequest(http.MethodGet, "/accounts", "")
	defer resp.Body.Close() //nolint:errcheck
	var list common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&list))
	data, ok := list.Data.([]any)
	s.Require().True(ok)
	s.Require().Len(data, 4)
	s.Equal(ids[0], data[0].(map[string]any)["id"])
	s.Equal(ids[4], data[3].(map[string]any)["id"])
}

func (s *AccountE2ETestSuite) TestDuplicateNumberEndToEnd() {
	body := `{"name":"Dup","number":"E2E-DUP","balance":1}`
	resp := s.MakeRequest(http.MethodPost, "/accounts", body)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusCreated, resp.StatusCode)

	resp = s.MakeRequest(http.MethodPost, "/accounts", body)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusConflict, resp.StatusCode)
}

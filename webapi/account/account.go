package account

import (
	"errors"
	"fmt"

	"github.com/amirasaad/accounts/pkg/domain"
	"github.com/amirasaad/accounts/pkg/dto"
	accountsvc "github.com/amirasaad/accounts/pkg/service/account"
	"github.com/amirasaad/accounts/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers HTTP routes for account records.
//
// Routes:
//   - POST   /accounts                 : Create an account.
//   - GET    /accounts                 : List accounts in creation order.
//   - GET    /accounts/:id             : Retrieve an account by ID.
//   - GET    /accounts/number/:number  : Retrieve an account by number.
//   - PUT    /accounts/:id             : Update name, number or balance.
//   - DELETE /accounts/:id             : Delete an account.
func Routes(app fiber.Router, accountSvc *accountsvc.Service) {
	app.Post("/accounts", CreateAccount(accountSvc))
	app.Get("/accounts", ListAccounts(accountSvc))
	app.Get("/accounts/number/:number", GetAccountByNumber(accountSvc))
	app.Get("/accounts/:id", GetAccount(accountSvc))
	app.Put("/accounts/:id", UpdateAccount(accountSvc))
	app.Delete("/accounts/:id", DeleteAccount(accountSvc))
}

// CreateAccount returns a Fiber handler for creating a new account.
// @Summary Create a new account
// @Description Creates an account with a holder name, a unique number and an opening balance.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} common.Response "Account created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 409 {object} common.ProblemDetails "Account number already exists"
// @Failure 429 {object} common.ProblemDetails "Too many requests"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /accounts [post]
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		a, err := accountSvc.CreateAccount(c.UserContext(), input.toDTO())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", toResponse(dto.ToAccountRead(a)))
	}
}

// ListAccounts returns a Fiber handler listing every account.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response "Accounts"
// @Failure 503 {object} common.ProblemDetails "Store unavailable"
// @Router /accounts [get]
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accs, err := accountSvc.ListAccounts(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", toResponses(dto.ToAccountReads(accs)))
	}
}

// GetAccount returns a Fiber handler fetching an account by ID.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response "Account"
// @Failure 400 {object} common.ProblemDetails "Invalid account ID"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{id} [get]
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseAccountID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err, "Account ID must be a valid UUID")
		}
		a, err := accountSvc.GetAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", toResponse(dto.ToAccountRead(a)))
	}
}

// GetAccountByNumber returns a Fiber handler fetching an account by number.
// @Summary Get an account by number
// @Tags accounts
// @Produce json
// @Param number path string true "Account number"
// @Success 200 {object} common.Response "Account"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/number/{number} [get]
func GetAccountByNumber(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := accountSvc.GetAccountByNumber(c.UserContext(), c.Params("number"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", toResponse(dto.ToAccountRead(a)))
	}
}

// UpdateAccount returns a Fiber handler applying a partial update.
// @Summary Update an account
// @Description Updates any of name, number and balance. At least one field is required.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body UpdateAccountRequest true "Fields to change"
// @Success 200 {object} common.Response "Account updated"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 409 {object} common.ProblemDetails "Account number already exists"
// @Router /accounts/{id} [put]
func UpdateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseAccountID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err, "Account ID must be a valid UUID")
		}
		input, err := common.BindAndValidate[UpdateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		a, err := accountSvc.UpdateAccount(c.UserContext(), id, input.toDTO())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account updated", toResponse(dto.ToAccountRead(a)))
	}
}

// DeleteAccount returns a Fiber handler removing an account.
// @Summary Delete an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response "Account deleted"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{id} [delete]
func DeleteAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseAccountID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err, "Account ID must be a valid UUID")
		}
		deleted, err := accountSvc.DeleteAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account deleted", DeleteAccountResponse{Deleted: deleted})
	}
}

func parseAccountID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, errors.New("nil UUID"))
	}
	return id, nil
}

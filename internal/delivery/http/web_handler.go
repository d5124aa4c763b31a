package http

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"brokersim/internal/domain"
	"brokersim/internal/middleware"
	"brokersim/internal/service"
	"brokersim/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

// usd renders a decimal amount as a human-readable dollar string. Formatting
// lives here in the view layer; services and repositories only ever see raw
// decimals.
func usd(amount decimal.Decimal) string {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// ParseTemplates parses the embedded page templates with the view helpers
func ParseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"usd": usd,
	}).ParseFS(templateFS, "templates/*.html")
}

// WebHandler serves the server-rendered pages
type WebHandler struct {
	templates  *template.Template
	accounts   *service.AccountService
	portfolios *service.PortfolioService
	trades     *usecase.TradeService
}

// NewWebHandler creates a new WebHandler
func NewWebHandler(
	templates *template.Template,
	accounts *service.AccountService,
	portfolios *service.PortfolioService,
	trades *usecase.TradeService,
) *WebHandler {
	return &WebHandler{
		templates:  templates,
		accounts:   accounts,
		portfolios: portfolios,
		trades:     trades,
	}
}

// render executes a page template with no-store headers so balances are
// never served from a stale browser cache
func (h *WebHandler) render(c echo.Context, name string, data interface{}) error {
	c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Response().Header().Set("Content-Type", echo.MIMETextHTMLCharsetUTF8)
	return h.templates.ExecuteTemplate(c.Response().Writer, name, data)
}

// redirectError sends the user back to a form page with a flash message
func redirectError(c echo.Context, page string, err error) error {
	msg := userMessage(err)
	return c.Redirect(http.StatusFound, page+"?error="+url.QueryEscape(msg))
}

// GET / - Render the portfolio index, or send to login
func (h *WebHandler) HandleIndex(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	portfolio, err := h.portfolios.PortfolioValue(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrQuoteUnavailable) {
			return h.render(c, "apology", map[string]interface{}{
				"Message": "Live prices are unavailable right now, please retry shortly",
			})
		}
		return err
	}

	return h.render(c, "index", map[string]interface{}{
		"Portfolio": portfolio,
		"Error":     c.QueryParam("error"),
	})
}

// GET /login - Render login page
func (h *WebHandler) HandleLogin(c echo.Context) error {
	if cookie, err := c.Cookie("token"); err == nil && cookie.Value != "" {
		return c.Redirect(http.StatusFound, "/")
	}

	return h.render(c, "login", map[string]interface{}{
		"Error": c.QueryParam("error"),
	})
}

// POST /login - Handle login form submission
func (h *WebHandler) HandleLoginPost(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.accounts.Authenticate(c.Request().Context(), username, password)
	if err != nil {
		return redirectError(c, "/login", err)
	}

	token, err := middleware.GenerateJWT(user.ID)
	if err != nil {
		return redirectError(c, "/login", fmt.Errorf("failed to generate token"))
	}
	setTokenCookie(c, token)

	return c.Redirect(http.StatusFound, "/")
}

// GET /logout - Clear the session cookie
func (h *WebHandler) HandleLogout(c echo.Context) error {
	cookie := &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
	c.SetCookie(cookie)

	return c.Redirect(http.StatusFound, "/login")
}

// GET /register - Render registration page
func (h *WebHandler) HandleRegister(c echo.Context) error {
	return h.render(c, "register", map[string]interface{}{
		"Error": c.QueryParam("error"),
	})
}

// POST /register - Handle registration form submission
func (h *WebHandler) HandleRegisterPost(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	confirmation := c.FormValue("confirmation")

	user, err := h.accounts.Register(c.Request().Context(), username, password, confirmation)
	if err != nil {
		return redirectError(c, "/register", err)
	}

	// Log the new user straight in, like the registration flow users expect
	token, err := middleware.GenerateJWT(user.ID)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	setTokenCookie(c, token)

	return c.Redirect(http.StatusFound, "/")
}

// GET /quote - Render quote form
func (h *WebHandler) HandleQuote(c echo.Context) error {
	return h.render(c, "quote", map[string]interface{}{
		"Error": c.QueryParam("error"),
	})
}

// POST /quote - Look up a symbol and render the result
func (h *WebHandler) HandleQuotePost(c echo.Context) error {
	symbol := c.FormValue("symbol")
	if symbol == "" {
		return redirectError(c, "/quote", domain.ErrUnknownSymbol)
	}

	quote, err := h.trades.Quote(c.Request().Context(), symbol)
	if err != nil {
		return redirectError(c, "/quote", err)
	}

	return h.render(c, "quoted", map[string]interface{}{
		"Quote": quote,
	})
}

// GET /buy - Render buy form
func (h *WebHandler) HandleBuy(c echo.Context) error {
	return h.render(c, "buy", map[string]interface{}{
		"Error": c.QueryParam("error"),
	})
}

// POST /buy - Execute a buy order
func (h *WebHandler) HandleBuyPost(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	shares, err := strconv.ParseInt(c.FormValue("shares"), 10, 64)
	if err != nil {
		return redirectError(c, "/buy", domain.ErrInvalidQuantity)
	}

	if _, err := h.trades.Buy(c.Request().Context(), userID, c.FormValue("symbol"), shares); err != nil {
		return redirectError(c, "/buy", err)
	}

	return c.Redirect(http.StatusFound, "/")
}

// GET /sell - Render sell form with the user's open positions
func (h *WebHandler) HandleSell(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	holdings, err := h.portfolios.Holdings(c.Request().Context(), userID, false)
	if err != nil {
		return err
	}

	return h.render(c, "sell", map[string]interface{}{
		"Holdings": holdings,
		"Error":    c.QueryParam("error"),
	})
}

// POST /sell - Execute a sell order
func (h *WebHandler) HandleSellPost(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	shares, err := strconv.ParseInt(c.FormValue("shares"), 10, 64)
	if err != nil {
		return redirectError(c, "/sell", domain.ErrInvalidQuantity)
	}

	if _, err := h.trades.Sell(c.Request().Context(), userID, c.FormValue("symbol"), shares); err != nil {
		return redirectError(c, "/sell", err)
	}

	return c.Redirect(http.StatusFound, "/")
}

// GET /history - Render the transaction log
func (h *WebHandler) HandleHistory(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	txns, err := h.trades.History(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return h.render(c, "history", map[string]interface{}{
		"Transactions": txns,
	})
}

// GET /changepwd - Render password change form
func (h *WebHandler) HandleChangePassword(c echo.Context) error {
	return h.render(c, "changepwd", map[string]interface{}{
		"Error": c.QueryParam("error"),
	})
}

// POST /changepwd - Handle password change form submission
func (h *WebHandler) HandleChangePasswordPost(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	err = h.accounts.ChangePassword(
		c.Request().Context(),
		userID,
		c.FormValue("old"),
		c.FormValue("new"),
		c.FormValue("confirmation"),
	)
	if err != nil {
		return redirectError(c, "/changepwd", err)
	}

	return c.Redirect(http.StatusFound, "/")
}

// RegisterWebRoutes registers all web routes (HTML pages)
func RegisterWebRoutes(e *echo.Echo, handler *WebHandler, authMiddleware echo.MiddlewareFunc) {
	// Public routes
	e.GET("/login", handler.HandleLogin)
	e.POST("/login", handler.HandleLoginPost)
	e.GET("/logout", handler.HandleLogout)
	e.GET("/register", handler.HandleRegister)
	e.POST("/register", handler.HandleRegisterPost)

	// Protected routes (require authentication)
	e.GET("/", handler.HandleIndex, authMiddleware)
	e.GET("/quote", handler.HandleQuote, authMiddleware)
	e.POST("/quote", handler.HandleQuotePost, authMiddleware)
	e.GET("/buy", handler.HandleBuy, authMiddleware)
	e.POST("/buy", handler.HandleBuyPost, authMiddleware)
	e.GET("/sell", handler.HandleSell, authMiddleware)
	e.POST("/sell", handler.HandleSellPost, authMiddleware)
	e.GET("/history", handler.HandleHistory, authMiddleware)
	e.GET("/changepwd", handler.HandleChangePassword, authMiddleware)
	e.POST("/changepwd", handler.HandleChangePasswordPost, authMiddleware)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	cartapp "github.com/shopcraft/storefront/internal/application/cart"
	"github.com/shopcraft/storefront/internal/client"
	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// localSession names the single anonymous cart kept on disk.
const localSession = "local"

// errUsage marks a command line that could not be parsed.
var errUsage = errors.New("usage")

type app struct {
	out     io.Writer
	api     *client.Client
	session *client.SessionFile
	carts   *cartapp.Service
	catalog *client.Catalog
}

// newApp wires the shared cart Selector: the JSON file under dataDir while
// signed out, the server's cart endpoints while signed in. The session file is
// read on every operation so login and logout switch carts immediately.
func newApp(cfg cliConfig, out io.Writer, log *zap.Logger) (*app, error) {
	session := client.NewSessionFile(filepath.Join(cfg.DataDir, "session.json"))
	api, err := client.New(cfg.Server,
		client.WithTimeout(cfg.Timeout),
		client.WithToken(session.Token),
	)
	if err != nil {
		return nil, err
	}

	local := cart.NewLocalStore(storage.NewFileStorage(filepath.Join(cfg.DataDir, "cart.json")),
		cart.WithLocalLogger(log))
	remote := api.CartStore()

	identity := cartapp.IdentityFunc(func(context.Context) (cart.Scope, error) {
		s, err := session.Load()
		if err != nil {
			return cart.Scope{}, err
		}
		if s != nil {
			return cart.OwnerScope(s.UserID), nil
		}
		return cart.GuestScope(localSession), nil
	})
	selector := cartapp.NewSelector(identity,
		func(context.Context, string) (cart.Store, error) { return local, nil },
		func(context.Context, int64) (cart.Store, error) { return remote, nil },
		log,
	)

	catalog := api.Catalog()
	return &app{
		out:     out,
		api:     api,
		session: session,
		carts:   cartapp.NewService(selector, catalog, cartapp.WithLogger(log)),
		catalog: catalog,
	}, nil
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "products":
		return a.products(ctx, rest)
	case "categories":
		return a.categories(ctx)
	case "add":
		return a.add(ctx, rest)
	case "set":
		return a.set(ctx, rest)
	case "remove":
		return a.remove(ctx, rest)
	case "clear":
		return a.clear(ctx)
	case "cart":
		return a.showCart(ctx)
	case "register", "login":
		return a.signIn(ctx, cmd, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var q client.ProductQuery
	fs.StringVar(&q.Search, "search", "", "match name or description")
	fs.StringVar(&q.Category, "category", "", "exact category")
	fs.StringVar(&q.MinPrice, "min", "", "minimum price")
	fs.StringVar(&q.MaxPrice, "max", "", "maximum price")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	products, err := a.catalog.Search(ctx, q)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		stock := "in stock"
		if !p.InStock {
			stock = "out of stock"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, p.Price, stock)
	}
	return w.Flush()
}

func (a *app) categories(ctx context.Context) error {
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Fprintln(a.out, c)
	}
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	qty := fs.Int("qty", 1, "quantity to add")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: add [-qty n] <productId>", errUsage)
	}
	productID, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	line, err := a.carts.Add(ctx, cartapp.AddItemRequest{ProductID: productID, Quantity: qty})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (line %d, quantity %d)\n", productName(line), line.ID, line.Quantity)
	return nil
}

func (a *app) set(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: set <lineId> <qty>", errUsage)
	}
	lineID, err := parseID(args[0])
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return shared.ErrInvalidInput.WithMessage("Quantity must be a number")
	}

	line, err := a.carts.SetQuantity(ctx, lineID, cartapp.UpdateItemRequest{Quantity: &qty})
	if err != nil {
		return err
	}
	if line == nil {
		fmt.Fprintln(a.out, "Item removed from cart")
		return nil
	}
	fmt.Fprintf(a.out, "Updated %s to quantity %d\n", productName(line), line.Quantity)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: remove <lineId>", errUsage)
	}
	lineID, err := parseID(args[0])
	if err != nil {
		return err
	}
	removed, err := a.carts.Remove(ctx, lineID)
	if err != nil {
		return err
	}
	if !removed {
		return shared.ErrNotFound.WithMessage("Cart item not found")
	}
	fmt.Fprintln(a.out, "Item removed from cart")
	return nil
}

func (a *app) clear(ctx context.Context) error {
	if err := a.carts.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Cart cleared")
	return nil
}

func (a *app) showCart(ctx context.Context) error {
	c, err := a.carts.Get(ctx)
	if err != nil {
		return err
	}
	if len(c.Items) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tPRODUCT\tQTY\tPRICE\tSUBTOTAL")
	for i := range c.Items {
		item := &c.Items[i]
		price := ""
		if item.Product != nil {
			price = item.Product.Price
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", item.ID, productName(item), item.Quantity, price, item.Subtotal)
	}
	fmt.Fprintf(w, "\t\t%d\t\t%s\n", c.TotalItems, c.TotalPrice)
	return w.Flush()
}

func (a *app) signIn(ctx context.Context, cmd string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: %s <username> <password>", errUsage, cmd)
	}
	signer := a.api.Login
	if cmd == "register" {
		signer = a.api.Register
	}
	res, err := signer(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	if err := a.session.Save(client.Session{
		UserID:       res.User.ID,
		Username:     res.User.Username,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.AccessTokenExpiresAt,
	}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", res.User.Username)
	return nil
}

// logout forgets the session even when the server cannot be told, so the
// CLI always falls back to the local cart afterwards.
func (a *app) logout(ctx context.Context) error {
	s, err := a.session.Load()
	if err != nil {
		return err
	}
	if s == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	remoteErr := a.api.Logout(ctx)
	if err := a.session.Remove(); err != nil {
		return err
	}
	if remoteErr != nil && !errors.Is(remoteErr, shared.ErrUnauthorized) {
		fmt.Fprintf(a.out, "Signed out locally (server: %s)\n", errorMessage(remoteErr))
		return nil
	}
	fmt.Fprintln(a.out, "Logged out successfully")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	s, err := a.session.Load()
	if err != nil {
		return err
	}
	if s == nil {
		fmt.Fprintln(a.out, "Not signed in (using the local cart)")
		return nil
	}
	user, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (id %d)\n", user.Username, user.ID)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.ErrInvalidInput.WithMessage("Invalid id " + strconv.Quote(s))
	}
	return id, nil
}

func productName(l *cartapp.LineResponse) string {
	if l.Product != nil {
		return l.Product.Name
	}
	return "product " + strconv.FormatInt(l.ProductID, 10)
}

// errorMessage prefers the user-facing message of a domain error.
func errorMessage(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

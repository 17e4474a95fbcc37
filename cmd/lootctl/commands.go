package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/digitalloot/storefront/pkg/cart"
	"github.com/digitalloot/storefront/pkg/orderstatus"
	"github.com/digitalloot/storefront/pkg/pagination"
	"github.com/digitalloot/storefront/pkg/storefront"
)

var errUsage = errors.New("usage")

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	a.log.Debug().Str("command", cmd).Strs("args", rest).Msg("run")

	switch cmd {
	case "products":
		return a.products(ctx, rest)
	case "featured":
		items, err := a.client.Featured(ctx)
		if err != nil {
			return err
		}
		a.printProducts(items)
		return nil
	case "platforms":
		platforms, err := a.client.Platforms(ctx)
		if err != nil {
			return err
		}
		for _, p := range platforms {
			fmt.Fprintln(a.out, p)
		}
		return nil
	case "product":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		p, err := a.client.Product(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s (%s, %s)\n%s\nS/ %s\n", p.Name, p.Platform, p.Category, p.Description, p.Price.StringFixed(2))
		return nil
	case "cart":
		return a.cartCmd(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		if err := a.client.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "logged out")
		return nil
	case "me":
		u, err := a.client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s <%s> role=%s\n", u.FullName, u.Email, u.Role)
		return nil
	case "checkout":
		return a.checkout(ctx, rest)
	case "orders":
		return a.myOrders(ctx, rest)
	case "order":
		if len(rest) != 1 {
			return errUsage
		}
		o, err := a.client.Order(ctx, rest[0])
		if err != nil {
			return err
		}
		a.printOrder(o)
		return nil
	case "cancel":
		if len(rest) != 1 {
			return errUsage
		}
		o, err := a.client.CancelOrder(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s %s\n", o.OrderNumber, o.Status.Label())
		return nil
	case "contact":
		return a.contact(ctx, rest)
	case "admin":
		return a.admin(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func argID(args []string) (uint, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q is not a product id", errUsage, args[0])
	}
	return uint(id), nil
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := newFlags("products")
	var q storefront.ProductQuery
	fs.StringVar(&q.Platform, "platform", "", "platform, DLC or todos")
	fs.StringVar(&q.Category, "category", "", "category")
	fs.StringVar(&q.Search, "q", "", "name search")
	fs.StringVar(&q.Sort, "sort", "", "precio_asc, precio_desc, nombre_asc or nombre_desc")
	fs.BoolVar(&q.FeaturedOnly, "featured", false, "featured only")
	fs.IntVar(&q.Page, "page", 1, "page")
	fs.IntVar(&q.Size, "size", pagination.DefaultPageSize, "page size")
	if err := parse(fs, args); err != nil {
		return err
	}

	page, err := a.client.Products(ctx, q)
	if err != nil {
		return err
	}
	a.printProducts(page.Data)
	a.printMeta(page.Meta)
	return nil
}

func (a *app) cartCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "show":
	case "clear":
		if err := a.cart.Clear(); err != nil {
			return err
		}
	case "add":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		p, err := a.client.Product(ctx, id)
		if err != nil {
			return err
		}
		if _, err := a.cart.Add(cart.Item{ID: uint64(p.ID), Name: p.Name, Price: p.Price, Image: p.Image, Category: p.Category}); err != nil {
			return err
		}
	case "inc", "dec", "rm":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		switch sub {
		case "inc":
			_, err = a.cart.Increment(uint64(id))
		case "dec":
			_, err = a.cart.Decrement(uint64(id))
		default:
			err = a.cart.Remove(uint64(id))
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown cart command %q", errUsage, sub)
	}

	a.printCart()
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := newFlags("register")
	var r storefront.Registration
	fs.StringVar(&r.FullName, "name", "", "full name")
	fs.StringVar(&r.Email, "email", "", "email")
	fs.StringVar(&r.Password, "password", "", "password, at least 6 characters")
	if err := parse(fs, args); err != nil {
		return err
	}
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("%w: register needs -email and -password", errUsage)
	}

	u, err := a.client.Register(ctx, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered %s\n", u.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", os.Getenv("LOOT_PASSWORD"), "password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("%w: login needs -email and -password", errUsage)
	}

	u, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	a.log.Info().Str("user", u.Email).Str("role", a.client.Role()).Msg("logged in")
	fmt.Fprintf(a.out, "welcome %s\n", u.FullName)
	return nil
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := newFlags("checkout")
	var in storefront.CheckoutInput
	fs.StringVar(&in.Customer.Name, "name", "", "customer name")
	fs.StringVar(&in.Customer.Email, "email", "", "customer email")
	fs.StringVar(&in.Customer.Phone, "phone", "", "phone")
	fs.StringVar(&in.Customer.Address, "address", "", "shipping address")
	fs.StringVar(&in.Customer.City, "city", "", "city")
	fs.StringVar(&in.Customer.Country, "country", "", "country")
	fs.StringVar(&in.Customer.PostalCode, "postal", "", "postal code")
	fs.StringVar(&in.PaymentMethod, "payment", "", "payment method")
	fs.StringVar(&in.Notes, "notes", "", "notes")
	if err := parse(fs, args); err != nil {
		return err
	}

	if in.Customer.Name == "" || in.Customer.Email == "" {
		if u, err := a.client.CurrentUser(); err == nil {
			if in.Customer.Name == "" {
				in.Customer.Name = u.FullName
			}
			if in.Customer.Email == "" {
				in.Customer.Email = u.Email
			}
		}
	}

	o, err := a.client.Checkout(ctx, a.cart, in)
	if err != nil {
		return err
	}
	a.printOrder(o)
	return nil
}

func (a *app) myOrders(ctx context.Context, args []string) error {
	fs := newFlags("orders")
	status := fs.String("status", "", "status filter")
	page := fs.Int("page", 1, "page")
	size := fs.Int("size", pagination.DefaultPageSize, "page size")
	stats := fs.Bool("stats", false, "show totals instead")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *stats {
		st, err := a.client.MyStats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "orders: %d  spent: S/ %s\n", st.Orders, st.TotalSpent.StringFixed(2))
		a.printByStatus(st.ByStatus)
		return nil
	}

	res, err := a.client.MyOrders(ctx, *status, *page, *size)
	if err != nil {
		return err
	}
	a.printOrders(res.Data)
	a.printMeta(res.Meta)
	return nil
}

func (a *app) contact(ctx context.Context, args []string) error {
	fs := newFlags("contact")
	var in storefront.ContactInput
	fs.StringVar(&in.Name, "name", "", "name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.Subject, "subject", "", "subject")
	fs.StringVar(&in.Message, "message", "", "message, up to 600 characters")
	if err := parse(fs, args); err != nil {
		return err
	}

	m, err := a.client.SendContact(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "message %d sent\n", m.ID)
	return nil
}

func (a *app) printProducts(items []storefront.Product) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPLATFORM\tCATEGORY\tPRICE")
	for _, p := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Platform, p.Category, p.Price.StringFixed(2))
	}
	_ = tw.Flush()
}

func (a *app) printCart() {
	if a.cart.Empty() {
		fmt.Fprintln(a.out, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, it := range a.cart.Items() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", it.ID, it.Name, it.Quantity, it.Price.StringFixed(2), it.Subtotal().StringFixed(2))
	}
	_ = tw.Flush()
	fmt.Fprintf(a.out, "items: %d  total: S/ %s\n", a.cart.Count(), a.cart.Total().StringFixed(2))
}

func (a *app) printOrders(orders []storefront.Order) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tSTATUS\tTOTAL\tDATE\tID")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.OrderNumber, o.Status.Label(), o.Total.StringFixed(2), o.CreatedAt.Format("02/01/2006"), o.ID)
	}
	_ = tw.Flush()
}

func (a *app) printOrder(o *storefront.Order) {
	fmt.Fprintf(a.out, "%s  %s  %s\n", o.OrderNumber, o.Status.Label(), o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(a.out, "  %d x %s  %s\n", it.Quantity, it.ProductName, it.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(a.out, "subtotal %s  tax %s  shipping %s  total %s\n",
		o.Subtotal.StringFixed(2), o.Tax.StringFixed(2), o.Shipping.StringFixed(2), o.Total.StringFixed(2))
}

func (a *app) printByStatus(by map[orderstatus.Status]int64) {
	keys := make([]orderstatus.Status, 0, len(by))
	for k := range by {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		fmt.Fprintf(a.out, "  %-12s %d\n", k.Label(), by[k])
	}
}

func (a *app) printMeta(m pagination.Meta) {
	fmt.Fprintf(a.out, "page %d/%d  total %d\n", m.Page, m.TotalPages, m.Total)
}

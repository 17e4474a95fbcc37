package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/digitalloot/storefront/pkg/pagination"
	"github.com/digitalloot/storefront/pkg/storefront"
)

func (a *app) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "orders":
		return a.adminOrders(ctx, rest)
	case "order":
		if len(rest) != 1 {
			return errUsage
		}
		o, err := a.client.AdminOrder(ctx, rest[0])
		if err != nil {
			return err
		}
		a.printOrder(o)
		fmt.Fprintf(a.out, "customer %s <%s> %s\n", o.CustomerName, o.CustomerEmail, o.CustomerPhone)
		return nil
	case "stats":
		st, err := a.client.AdminStats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "users %d  admins %d  products %d  orders %d\n", st.Users, st.Admins, st.Products, st.Orders)
		fmt.Fprintf(a.out, "sales S/ %s\n", st.TotalSales.StringFixed(2))
		a.printByStatus(st.ByStatus)
		return nil
	case "status":
		if len(rest) != 2 {
			return fmt.Errorf("%w: admin status ID STATUS", errUsage)
		}
		o, err := a.client.SetOrderStatus(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s %s\n", o.OrderNumber, o.Status.Label())
		return nil
	case "next":
		if len(rest) != 1 {
			return errUsage
		}
		o, err := a.client.AdvanceOrder(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s %s\n", o.OrderNumber, o.Status.Label())
		return nil
	case "delete":
		if len(rest) != 1 {
			return errUsage
		}
		if err := a.client.DeleteOrder(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "deleted %s\n", rest[0])
		return nil
	case "export":
		return a.adminExport(ctx, rest)
	case "users":
		return a.adminUsers(ctx, rest)
	case "promote", "demote":
		if len(rest) != 1 {
			return fmt.Errorf("%w: admin %s ID|EMAIL", errUsage, sub)
		}
		apply := a.client.Promote
		if sub == "demote" {
			apply = a.client.Demote
		}
		u, err := apply(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s is now %s\n", u.Email, u.Role)
		return nil
	case "messages":
		res, err := a.client.ContactMessages(ctx, 1, pagination.DefaultPageSize)
		if err != nil {
			return err
		}
		for _, m := range res.Data {
			fmt.Fprintf(a.out, "#%d %s <%s> %s\n  %s\n", m.ID, m.Name, m.Email, m.Subject, m.Message)
		}
		a.printMeta(res.Meta)
		return nil
	default:
		return fmt.Errorf("%w: unknown admin command %q", errUsage, sub)
	}
}

func (a *app) adminOrders(ctx context.Context, args []string) error {
	fs := newFlags("admin orders")
	var q storefront.OrderQuery
	fs.StringVar(&q.Status, "status", "", "status filter or todos")
	fs.StringVar(&q.Search, "q", "", "order number, customer name or email")
	fs.IntVar(&q.Page, "page", 1, "page")
	fs.IntVar(&q.Size, "size", pagination.DefaultPageSize, "page size")
	if err := parse(fs, args); err != nil {
		return err
	}

	res, err := a.client.AdminOrders(ctx, q)
	if err != nil {
		return err
	}
	a.printOrders(res.Data)
	a.printMeta(res.Meta)
	return nil
}

func (a *app) adminExport(ctx context.Context, args []string) error {
	fs := newFlags("admin export")
	var q storefront.OrderQuery
	format := fs.String("format", "csv", "csv or xlsx")
	dir := fs.String("dir", ".", "output directory")
	fs.StringVar(&q.Status, "status", "", "status filter")
	fs.StringVar(&q.Search, "q", "", "search")
	if err := parse(fs, args); err != nil {
		return err
	}

	body, name, err := a.client.ExportOrders(ctx, *format, q)
	if err != nil {
		return err
	}
	path := filepath.Join(*dir, filepath.Base(name))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	a.log.Info().Str("path", path).Int("bytes", len(body)).Msg("export written")
	fmt.Fprintln(a.out, path)
	return nil
}

func (a *app) adminUsers(ctx context.Context, args []string) error {
	fs := newFlags("admin users")
	search := fs.String("q", "", "name or email")
	admins := fs.Bool("admins", false, "admins only")
	page := fs.Int("page", 1, "page")
	size := fs.Int("size", pagination.DefaultPageSize, "page size")
	if err := parse(fs, args); err != nil {
		return err
	}

	res, err := a.client.Users(ctx, *search, *admins, *page, *size)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tNAME\tROLE\tID")
	for _, u := range res.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Email, u.FullName, u.Role, u.ID)
	}
	_ = tw.Flush()
	a.printMeta(res.Meta)
	return nil
}

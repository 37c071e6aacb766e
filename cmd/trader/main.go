package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cmaia/mercado-trading/internal/api"
	"github.com/cmaia/mercado-trading/internal/config"
	"github.com/cmaia/mercado-trading/internal/database"
	"github.com/cmaia/mercado-trading/internal/monitor"
	"github.com/urfave/cli/v2"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "trader",
		Usage:   "Mercado Bitcoin trading client",
		Version: fmt.Sprintf("%s (build: %s, commit: %s)", Version, BuildTime, GitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "configuration file path",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "ticker",
				Usage: "show the current ticker for a currency",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "currency",
						Aliases: []string{"s"},
						Usage:   "currency symbol (BTC, ETH, LTC...)",
					},
				},
				Action: cmdTicker,
			},
			{
				Name:  "summary",
				Usage: "show the day summary for a currency and date",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "currency",
						Aliases: []string{"s"},
						Usage:   "currency symbol (BTC, ETH, LTC...)",
					},
					&cli.StringFlag{
						Name:     "date",
						Aliases:  []string{"d"},
						Usage:    "calendar day (YYYY-MM-DD)",
						Required: true,
					},
				},
				Action: cmdSummary,
			},
			{
				Name:  "orderbook",
				Usage: "show the authenticated order book",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "pair",
						Aliases: []string{"p"},
						Usage:   "coin pair (BRLBTC, BRLETH...)",
					},
					&cli.BoolFlag{
						Name:  "full",
						Usage: "return the complete book",
					},
				},
				Action: cmdOrderbook,
			},
			{
				Name:   "account",
				Usage:  "show account balances and withdrawal limits",
				Action: cmdAccount,
			},
			{
				Name:  "buy",
				Usage: "place a limit buy order",
				Flags: orderFlags(),
				Action: func(c *cli.Context) error {
					return cmdPlaceOrder(c, api.OrderSideBuy)
				},
			},
			{
				Name:  "sell",
				Usage: "place a limit sell order",
				Flags: orderFlags(),
				Action: func(c *cli.Context) error {
					return cmdPlaceOrder(c, api.OrderSideSell)
				},
			},
			{
				Name:  "order",
				Usage: "show a single order",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "pair",
						Aliases: []string{"p"},
						Usage:   "coin pair (BRLBTC, BRLETH...)",
					},
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "order id",
						Required: true,
					},
				},
				Action: cmdGetOrder,
			},
			{
				Name:  "cancel",
				Usage: "cancel an open order",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "pair",
						Aliases: []string{"p"},
						Usage:   "coin pair (BRLBTC, BRLETH...)",
					},
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "order id",
						Required: true,
					},
				},
				Action: cmdCancelOrder,
			},
			{
				Name:  "orders",
				Usage: "list account orders for a coin pair",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "pair",
						Aliases: []string{"p"},
						Usage:   "coin pair (BRLBTC, BRLETH...)",
					},
				},
				Action: cmdListOrders,
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if c.String("log-level") != "" {
				cfg.Log.Level = c.String("log-level")
			}

			c.App.Metadata["config"] = cfg
			c.App.Metadata["logger"] = monitor.NewLogger(cfg.Log.Level, cfg.Log.Output)

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func orderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "pair",
			Aliases: []string{"p"},
			Usage:   "coin pair (BRLBTC, BRLETH...)",
		},
		&cli.Float64Flag{
			Name:     "quantity",
			Aliases:  []string{"q"},
			Usage:    "order quantity",
			Required: true,
		},
		&cli.Float64Flag{
			Name:     "price",
			Usage:    "limit price",
			Required: true,
		},
	}
}

func getConfig(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}

func getLogger(c *cli.Context) *monitor.Logger {
	return c.App.Metadata["logger"].(*monitor.Logger)
}

// getClient builds the client variant the configured credentials allow.
func getClient(c *cli.Context) *api.Client {
	cfg := getConfig(c)
	switch {
	case cfg.API.HasCredentials() && cfg.API.PublicURL != "":
		return api.NewClient(cfg.API.PublicURL, cfg.API.PrivateURL, cfg.API.TapiID, cfg.API.TapiSecret)
	case cfg.API.HasCredentials():
		return api.NewPrivateClient(cfg.API.PrivateURL, cfg.API.TapiID, cfg.API.TapiSecret)
	default:
		return api.NewPublicClient(cfg.API.PublicURL)
	}
}

// getOrderLog opens the order-log database when it is enabled. A nil return
// with nil error means the log is disabled.
func getOrderLog(c *cli.Context) (*database.DB, error) {
	cfg := getConfig(c)
	if !cfg.Database.Enabled {
		return nil, nil
	}

	db, err := database.New(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open order log: %w", err)
	}
	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init order log schema: %w", err)
	}
	return db, nil
}

func printJSON(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(jsonData))
}

func currencyArg(c *cli.Context) string {
	if s := c.String("currency"); s != "" {
		return s
	}
	return getConfig(c).Trading.DefaultCurrency
}

func pairArg(c *cli.Context) string {
	if p := c.String("pair"); p != "" {
		return p
	}
	return getConfig(c).Trading.DefaultPair
}

func cmdTicker(c *cli.Context) error {
	currency := currencyArg(c)

	ticker, err := getClient(c).Ticker(currency)
	if err != nil {
		return fmt.Errorf("failed to get ticker: %w", err)
	}

	fmt.Printf("%s ticker (as of %s):\n", currency, ticker.Time().Format(time.RFC3339))
	printJSON(ticker)
	return nil
}

func cmdSummary(c *cli.Context) error {
	currency := currencyArg(c)

	date, err := time.Parse("2006-01-02", c.String("date"))
	if err != nil {
		return fmt.Errorf("invalid --date value: %w", err)
	}

	summary, err := getClient(c).DaySummary(currency, date)
	if err != nil {
		return fmt.Errorf("failed to get day summary: %w", err)
	}

	fmt.Printf("%s day summary for %s:\n", currency, date.Format("2006-01-02"))
	printJSON(summary)
	return nil
}

func cmdOrderbook(c *cli.Context) error {
	pair := pairArg(c)

	book, err := getClient(c).Orderbook(pair, c.Bool("full"))
	if err != nil {
		return fmt.Errorf("failed to get orderbook: %w", err)
	}

	fmt.Printf("%s orderbook (%d bids, %d asks):\n", pair, len(book.Bids), len(book.Asks))
	printJSON(book)
	return nil
}

func cmdAccount(c *cli.Context) error {
	info, err := getClient(c).GetAccountInfo()
	if err != nil {
		return fmt.Errorf("failed to get account info: %w", err)
	}

	fmt.Println("Account info:")
	printJSON(info)
	return nil
}

func cmdPlaceOrder(c *cli.Context, side api.OrderSide) error {
	logger := getLogger(c)
	pair := pairArg(c)
	quantity := c.Float64("quantity")
	price := c.Float64("price")

	client := getClient(c)

	var (
		order *api.Order
		err   error
	)
	if side == api.OrderSideSell {
		order, err = client.PlaceSellOrder(pair, quantity, price)
	} else {
		order, err = client.PlaceBuyOrder(pair, quantity, price)
	}
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"order_id": order.OrderID,
		"pair":     order.CoinPair,
		"side":     order.OrderType.String(),
		"status":   order.Status.String(),
	}).Info("order placed")

	if db, err := getOrderLog(c); err != nil {
		logger.Warnf("order log unavailable: %v", err)
	} else if db != nil {
		defer db.Close()
		if err := db.SaveOrder(database.ActionPlaced, order); err != nil {
			logger.Warnf("failed to record order: %v", err)
		}
	}

	printJSON(order)
	return nil
}

func cmdGetOrder(c *cli.Context) error {
	order, err := getClient(c).GetOrder(pairArg(c), c.Int64("id"))
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	printJSON(order)
	return nil
}

func cmdCancelOrder(c *cli.Context) error {
	logger := getLogger(c)

	order, err := getClient(c).CancelOrder(pairArg(c), c.Int64("id"))
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"order_id": order.OrderID,
		"pair":     order.CoinPair,
		"status":   order.Status.String(),
	}).Info("order cancelled")

	if db, err := getOrderLog(c); err != nil {
		logger.Warnf("order log unavailable: %v", err)
	} else if db != nil {
		defer db.Close()
		if err := db.SaveOrder(database.ActionCancelled, order); err != nil {
			logger.Warnf("failed to record order: %v", err)
		}
	}

	printJSON(order)
	return nil
}

func cmdListOrders(c *cli.Context) error {
	pair := pairArg(c)

	orders, err := getClient(c).ListOrders(pair)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	fmt.Printf("%s orders (%d):\n", pair, len(orders))
	printJSON(orders)
	return nil
}

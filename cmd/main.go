package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli"

	"bikeroute-client/internal/bikes"
	"bikeroute-client/internal/config"
	"bikeroute-client/internal/events"
	"bikeroute-client/internal/location"
	"bikeroute-client/internal/notify"
	"bikeroute-client/internal/routes"
	"bikeroute-client/internal/users"
	"bikeroute-client/pkg/api"
	rredis "bikeroute-client/pkg/redis"
)

func main() {
	app := cli.NewApp()
	app.Name = "bikeroute"
	app.Usage = "browse and share cycling routes"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "api-url", Usage: "API root, overrides --env", EnvVar: "API_BASE_URL"},
		cli.StringFlag{Name: "env", Usage: "target environment (local|device)", EnvVar: "APP_ENV"},
		cli.BoolFlag{Name: "insecure", Usage: "accept self-signed TLS certificates", EnvVar: "API_INSECURE_TLS"},
		cli.StringFlag{Name: "redis-addr", Usage: "redis holding device positions", EnvVar: "REDIS_ADDR"},
		cli.StringFlag{Name: "device-id", Usage: "device whose position is used", EnvVar: "DEVICE_ID"},
		cli.Float64Flag{Name: "lat", Usage: "fixed device latitude", EnvVar: "LOCATION_LAT"},
		cli.Float64Flag{Name: "lng", Usage: "fixed device longitude", EnvVar: "LOCATION_LNG"},
	}
	app.Commands = []cli.Command{
		{
			Name:   "login",
			Usage:  "sign in by name",
			Flags:  []cli.Flag{cli.StringFlag{Name: "name"}},
			Action: login,
		},
		{
			Name:  "register",
			Usage: "create a user",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "name"},
				cli.StringFlag{Name: "email"},
			},
			Action: register,
		},
		{
			Name:   "routes",
			Usage:  "list recorded routes and their map markers",
			Action: listRoutes,
		},
		{
			Name:   "bikes",
			Usage:  "list bike types",
			Action: listBikes,
		},
		{
			Name:  "create-route",
			Usage: "record a new route",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "location"},
				cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, defaults to today"},
				cli.StringFlag{Name: "latitude", Usage: "defaults to the device position"},
				cli.StringFlag{Name: "longitude", Usage: "defaults to the device position"},
				cli.StringFlag{Name: "bike", Usage: "bike type label, defaults to the first one"},
			},
			Action: createRoute,
		},
		{
			Name:  "create-event",
			Usage: "schedule an event on a route",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "route-id", Usage: "defaults to the first route"},
				cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, defaults to today"},
				cli.StringFlag{Name: "description"},
			},
			Action: createEvent,
		},
		{
			Name:  "set-location",
			Usage: "store this device's position in redis",
			Flags: []cli.Flag{
				cli.Float64Flag{Name: "latitude"},
				cli.Float64Flag{Name: "longitude"},
			},
			Action: setLocation,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// deps is everything a command needs, built from config and global flags.
type deps struct {
	ctx     context.Context
	cfg     config.Config
	client  *api.Client
	locator location.Provider
	out     *notify.Writer
	redis   *rredis.Client
	stop    func()
}

func (s *deps) Close() {
	if s.redis != nil {
		s.redis.Close()
	}
	s.stop()
}

func open(c *cli.Context) (*deps, error) {
	cfg := config.Load()
	if c.GlobalIsSet("api-url") {
		cfg.APIBaseURL = c.GlobalString("api-url")
	}
	if c.GlobalIsSet("env") {
		cfg.AppEnv = c.GlobalString("env")
	}
	if c.GlobalIsSet("insecure") {
		cfg.InsecureTLS = c.GlobalBool("insecure")
	}
	if c.GlobalIsSet("redis-addr") {
		cfg.RedisAddr = c.GlobalString("redis-addr")
	}
	if c.GlobalIsSet("device-id") {
		cfg.DeviceID = c.GlobalString("device-id")
	}
	if c.GlobalIsSet("lat") && c.GlobalIsSet("lng") {
		cfg.LocationLat, cfg.LocationLng = c.GlobalFloat64("lat"), c.GlobalFloat64("lng")
		cfg.HasLocation = true
	}

	base, err := cfg.BaseURL()
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	s := &deps{
		ctx:    ctx,
		cfg:    cfg,
		client: api.NewClient(base, api.NewHTTPClient(cfg.InsecureTLS)),
		out:    notify.NewWriter(os.Stdout),
		stop:   stop,
	}

	var providers []location.Provider
	if cfg.HasLocation {
		providers = append(providers, location.NewStatic(cfg.LocationLat, cfg.LocationLng))
	}
	if cfg.RedisAddr != "" {
		rc, err := rredis.NewClient(cfg.RedisAddr, 3)
		if err != nil {
			log.Printf("[main] device positions unavailable: %v", err)
		} else {
			s.redis = rc
			if cfg.DeviceID != "" {
				providers = append(providers, location.NewGeoProvider(rc, cfg.DeviceID))
			}
		}
	}
	s.locator = location.First(providers...)

	log.Printf("[main] api %s", s.client.BaseURL())
	return s, nil
}

// failed ends the command with a non-zero status. The reason was already shown as a notification.
func failed(err error) error {
	if err == nil {
		return nil
	}
	return cli.NewExitError("", 1)
}

func login(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	name, err := users.NewLogin(s.client, s.out).Submit(s.ctx, c.String("name"))
	if err != nil {
		return failed(err)
	}
	fmt.Printf("Welcome, %s\n", name)
	return nil
}

func register(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	r := users.NewRegister(s.client, s.out)
	r.SetName(c.String("name"))
	r.SetEmail(c.String("email"))
	created, err := r.Submit(s.ctx)
	if err != nil {
		return failed(err)
	}
	fmt.Printf("user #%d %s <%s>\n", created.ID, created.Name, created.Email)
	return nil
}

func listRoutes(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	home := routes.NewHome(s.client, s.out)
	if err := home.Mount(s.ctx); err != nil {
		return failed(err)
	}
	if coords, err := s.locator.Current(s.ctx); err == nil {
		fmt.Printf("You are at %.5f, %.5f\n", coords.Latitude, coords.Longitude)
	}
	for _, card := range home.Cards() {
		fmt.Printf("#%d  %-12s %-30s %s\n", card.ID, card.Bike, card.Location, card.Date)
	}
	for _, m := range home.Markers() {
		fmt.Printf("marker #%d %q at %.5f, %.5f\n", m.RouteID, m.Title, m.Latitude, m.Longitude)
	}
	return nil
}

func listBikes(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	types, err := bikes.NewLoader(s.client, s.out).Load(s.ctx)
	if err != nil && !errors.Is(err, api.ErrShapeMismatch) {
		return failed(err)
	}
	fmt.Println(strings.Join(bikes.Labels(types), "\n"))
	return nil
}

func createRoute(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	f := routes.NewCreateForm(s.client, s.locator, s.out)
	if err := f.Mount(s.ctx); err != nil {
		return failed(err)
	}
	f.SetLocation(c.String("location"))
	if c.IsSet("date") {
		f.SetDate(c.String("date"))
	}
	if c.IsSet("latitude") {
		f.SetLatitude(c.String("latitude"))
	}
	if c.IsSet("longitude") {
		f.SetLongitude(c.String("longitude"))
	}
	if c.IsSet("bike") {
		f.SetBike(c.String("bike"))
	}

	created, err := f.Submit(s.ctx)
	if err != nil {
		return failed(err)
	}
	fmt.Printf("route #%d %s\n", created.ID, created.Location)
	return nil
}

func createEvent(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	f := events.NewCreateForm(s.client, s.out)
	if err := f.Mount(s.ctx); err != nil {
		return failed(err)
	}
	if c.IsSet("route-id") {
		f.SelectRoute(c.Int("route-id"))
	}
	if c.IsSet("date") {
		f.SetDate(c.String("date"))
	}
	f.SetDescription(c.String("description"))

	created, err := f.Submit(s.ctx)
	if err != nil {
		return failed(err)
	}
	fmt.Printf("event #%d on route #%d\n", created.ID, created.RouteID)
	return nil
}

func setLocation(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.redis == nil || s.cfg.DeviceID == "" {
		return errors.New("set-location needs --redis-addr and --device-id")
	}
	lat, lng := c.Float64("latitude"), c.Float64("longitude")
	if !c.IsSet("latitude") || !c.IsSet("longitude") {
		return errors.New("set-location needs --latitude and --longitude")
	}
	if err := s.redis.SetDeviceLocation(s.ctx, s.cfg.DeviceID, lat, lng); err != nil {
		return err
	}
	s.out.Notify(notify.Success(fmt.Sprintf("Stored %.5f, %.5f for %s.", lat, lng, s.cfg.DeviceID)))
	return nil
}

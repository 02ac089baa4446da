package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"framechain/pkg/broker"
	"framechain/pkg/capability"
	"framechain/pkg/capability/dummy"
	"framechain/pkg/capability/rest"
	"framechain/pkg/chain"
	"framechain/pkg/client"
	"framechain/pkg/clip"
	"framechain/pkg/continuity"
	"framechain/pkg/frame"
	"framechain/pkg/job"
	"framechain/pkg/relay"
	"framechain/pkg/store"
	"framechain/pkg/util/config"
	"framechain/pkg/util/context"

	"github.com/labstack/echo/v4"
	"github.com/neko-neko/echo-logrus/v2/log"
	"github.com/pkg/errors"
)

type controllerConfig struct {
	Port            string `json:"port" mapstructure:"port" env:"PORT" envDefault:"8080"`
	Capability      string `json:"capability" mapstructure:"capability" env:"CAPABILITY_TYPE" envDefault:"dummy"`
	PollInterval    int    `json:"poll_interval" mapstructure:"poll_interval" env:"POLL_INTERVAL" envDefault:"5"`
	PollMaxAttempts int    `json:"poll_max_attempts" mapstructure:"poll_max_attempts" env:"POLL_MAX_ATTEMPTS" envDefault:"60"`
	AspectRatio     string `json:"aspect_ratio" mapstructure:"aspect_ratio" env:"ASPECT_RATIO" envDefault:"16:9"`
	ImageModel      string `json:"image_model" mapstructure:"image_model" env:"IMAGE_MODEL"`
}

// hostingProviders is the config block listing the hosting fallbacks tried
// by the relay, in priority order.
type hostingProviders struct {
	Providers []rest.HostingConfig `json:"providers" mapstructure:"providers"`
}

func main() {
	// Create context, echo object and set logger
	e := echo.New()
	ctx := context.Background()
	l := log.MyLogger{Logger: ctx.Logger().Logger}
	e.Logger = &l

	if err := config.ReadInConfig(); err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to read config"))
		os.Exit(1)
	}
	var cfg controllerConfig
	if err := config.Unmarshal("controller", &cfg); err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to parse controller config"))
		os.Exit(1)
	}

	s, err := store.NewInMemoryStore()
	if err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to instantiate store"))
		os.Exit(1)
	}

	//Instantiate chain orchestrator
	orch, err := NewOrchestrator(ctx, cfg, s)
	if err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to instantiate orchestrator"))
		os.Exit(1)
	}

	//Setup routes
	h := handlers{
		orch: orch,
	}
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "framechain controller")
	})
	e.Add(client.SubmitMethod, client.SubmitPath, h.Submit)
	e.Add(client.ListRunsMethod, client.ListRunsPath, h.ListRuns)
	e.Add(client.RunStateMethod, client.RunStatePath, h.RunState)
	e.Add(client.SegmentStateMethod, client.SegmentStatePath, h.SegmentState)

	e.HideBanner = true
	e.HidePort = true

	e.Logger.Infof("http server started on 127.0.0.1:%s", cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", cfg.Port)))
}

// NewOrchestrator wires the chain orchestrator with the configured
// capability bindings.
func NewOrchestrator(ctx context.Context, cfg controllerConfig, s store.Store) (chain.Orchestrator, error) {
	caps, err := newCapabilities(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jobs := job.NewClient(time.Duration(cfg.PollInterval)*time.Second, cfg.PollMaxAttempts)
	fetch := frame.NewHTTPFetcher()
	frames := frame.NewSynthesizer(caps.images, jobs, fetch, frame.Options{
		AspectRatio: cfg.AspectRatio,
		Model:       cfg.ImageModel,
	})

	// Resynthesis through the image provider comes first, the hosting
	// uploads are the fallbacks.
	strategies := []relay.Strategy{relay.Resynthesize(caps.images, jobs, cfg.AspectRatio)}
	for _, host := range caps.hosting {
		strategies = append(strategies, relay.Upload(host))
	}
	rel, err := relay.New(strategies...)
	if err != nil {
		return nil, err
	}

	// The broker is optional, runs work without event consumers.
	var b broker.Broker
	if os.Getenv("BROKER_TYPE") != "" || config.Get("broker.type") != nil {
		b, err = broker.NewFromConfig(ctx, "broker")
		if err != nil {
			return nil, err
		}
	} else {
		ctx.Logger().Warn("no broker configured, run events will not be published")
	}

	var chainCfg chain.Config
	if err := config.Unmarshal("chain", &chainCfg); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal chain config")
	}

	return chain.New(chain.Dependencies{
		Frames:    frames,
		Predictor: continuity.NewPredictor(caps.vision, frames),
		Relay:     rel,
		Clips:     clip.NewSynthesizer(caps.videos, jobs),
		Fetch:     fetch,
		Store:     s,
		Broker:    b,
	}, chainCfg)
}

type capabilities struct {
	images  capability.ImageSynthesis
	videos  capability.VideoSynthesis
	vision  capability.Vision
	hosting []capability.Hosting
}

func newCapabilities(ctx context.Context, cfg controllerConfig) (capabilities, error) {
	switch strings.ToLower(cfg.Capability) {
	case "dummy":
		d := dummy.New()
		return capabilities{
			images:  d,
			videos:  d,
			vision:  d,
			hosting: []capability.Hosting{d},
		}, nil
	case "rest":
		return newRESTCapabilities(ctx)
	default:
		return capabilities{}, errors.Errorf("unknown capability type %s", cfg.Capability)
	}
}

func newRESTCapabilities(ctx context.Context) (capabilities, error) {
	var imgCfg rest.ImageConfig
	if err := config.Unmarshal("image", &imgCfg); err != nil {
		return capabilities{}, errors.Wrap(err, "cannot unmarshal image config")
	}
	images, err := rest.NewImageClient(imgCfg)
	if err != nil {
		return capabilities{}, err
	}

	var vidCfg rest.VideoConfig
	if err := config.Unmarshal("video", &vidCfg); err != nil {
		return capabilities{}, errors.Wrap(err, "cannot unmarshal video config")
	}
	videos, err := rest.NewVideoClient(vidCfg)
	if err != nil {
		return capabilities{}, err
	}

	var visCfg rest.VisionConfig
	if err := config.Unmarshal("vision", &visCfg); err != nil {
		return capabilities{}, errors.Wrap(err, "cannot unmarshal vision config")
	}
	vision, err := rest.NewVisionClient(visCfg)
	if err != nil {
		return capabilities{}, err
	}

	var hostCfg hostingProviders
	if err := config.Unmarshal("hosting", &hostCfg); err != nil {
		return capabilities{}, errors.Wrap(err, "cannot unmarshal hosting config")
	}
	hosting := make([]capability.Hosting, 0, len(hostCfg.Providers))
	for _, hc := range hostCfg.Providers {
		host, err := rest.NewHostingClient(hc)
		if err != nil {
			return capabilities{}, err
		}
		hosting = append(hosting, host)
	}
	if len(hosting) == 0 {
		ctx.Logger().Warn("no hosting providers configured, relying on resynthesis only")
	}

	return capabilities{
		images:  images,
		videos:  videos,
		vision:  vision,
		hosting: hosting,
	}, nil
}

type handlers struct {
	orch chain.Orchestrator
}

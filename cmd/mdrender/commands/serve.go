package commands

import (
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	"git.home.luguber.info/inful/mdrender/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	RenderFlags
	Addr string `short:"a" help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	svc, err := s.service(cfg, rec)
	if err != nil {
		return err
	}

	sc := cfg.Server
	if s.Addr != "" {
		sc.Addr = s.Addr
	}
	srv := httpserver.New(sc, svc, httpserver.Options{
		Recorder:       rec,
		MetricsHandler: metrics.HTTPHandler(reg),
	})
	return srv.Run(g.Context)
}

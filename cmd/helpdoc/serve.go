package main

import (
	"github.com/fwojciec/helpdoc/gin"
	"github.com/fwojciec/helpdoc/goquery"
	gingonic "github.com/gin-gonic/gin"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	gingonic.SetMode(gingonic.ReleaseMode)

	s := gin.NewServer(deps.Logger)
	s.Addr = c.Addr
	s.BaseURL = deps.BaseURL
	s.Fetcher = deps.Fetcher
	s.Processor = deps.Processor
	s.Containers = goquery.ListContainers

	if err := s.Open(); err != nil {
		return err
	}

	<-deps.Ctx.Done()
	deps.Logger.Info("shutting down")
	return s.Close()
}

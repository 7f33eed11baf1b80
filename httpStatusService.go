package main

import (
	"log"
	"net/http"
	"sync"

	"golang.org/x/net/context"
)

type httpStatusService struct {
	srv     *http.Server
	handler *apiHandler
	wg      sync.WaitGroup
}

func (h *httpStatusService) launch(handler *apiHandler, addr string) {
	h.handler = handler
	h.srv = &http.Server{Addr: addr, Handler: newStatusRouter(handler)}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		log.Printf("starting status service on %s", addr)
		err := h.srv.ListenAndServe()
		if err != http.ErrServerClosed {
			log.Print(err)
		}
		log.Print("Exiting status service")
	}()
}

func (h *httpStatusService) stop() {
	if h.srv == nil {
		return
	}
	h.srv.Shutdown(context.Background())
	h.wg.Wait()
}

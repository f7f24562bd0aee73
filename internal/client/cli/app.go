// Package cli implements the interactive ConlangForge command-line client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/conlangforge/conlangforge/internal/client/api"
	"github.com/conlangforge/conlangforge/internal/client/cache"
	"github.com/conlangforge/conlangforge/internal/client/config"
	"github.com/conlangforge/conlangforge/internal/client/models"
)

type App struct {
	config  *config.Config
	api     api.Client
	cache   *cache.Cache
	reader  *bufio.Reader
	conlang *models.Conlang
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	store, err := cache.Open(ctx, c.CacheDSN)
	if err != nil {
		log.Printf("error initializing cache database: %s", err.Error())
		return nil, err
	}

	client := api.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout)

	return &App{config: c, api: client, cache: store, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.cache.Close()

	fmt.Println("ConlangForge CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.api.IsAuthenticated()
}

// status feeds the REPL prompt: the selected conlang's name, or the login
// state when none is selected.
func (a *App) status() string {
	if a.conlang != nil {
		return a.conlang.Name
	}
	if a.isLoggedIn() {
		return "no conlang"
	}
	return "anonymous"
}

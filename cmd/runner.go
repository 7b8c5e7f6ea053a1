package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/songnote/internal/formatter"
	"github.com/desertthunder/songnote/internal/repositories"
	"github.com/desertthunder/songnote/internal/services"
	"github.com/desertthunder/songnote/internal/shared"
	"github.com/desertthunder/songnote/internal/tasks"
	"github.com/desertthunder/songnote/internal/tokenstore"
	"github.com/desertthunder/songnote/internal/vault"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies not injected through [RunnerOpts] are built lazily from the loaded config.
type Runner struct {
	config      *shared.Config
	configPath  string
	logger      *log.Logger
	output      io.Writer
	transport   services.Transport
	endpoints   services.Endpoints
	cache       *services.ServiceCache
	store       tokenstore.Store
	vault       vault.Vault
	db          *sql.DB
	openBrowser func(string) error
	now         func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Logger      *log.Logger
	Output      io.Writer
	Transport   services.Transport
	Endpoints   services.Endpoints
	Store       tokenstore.Store
	Vault       vault.Vault
	DB          *sql.DB
	OpenBrowser func(string) error
	Now         func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = defaultConfigPath
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		logger:      opts.Logger,
		output:      opts.Output,
		transport:   opts.Transport,
		endpoints:   opts.Endpoints,
		store:       opts.Store,
		vault:       opts.Vault,
		db:          opts.DB,
		openBrowser: opts.OpenBrowser,
		now:         opts.Now,
	}
}

// Configure loads the config named by --config and applies --verbose. It runs before every command.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if _, err := os.Stat(r.configPath); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		return ctx, nil
	}

	config, err := shared.LoadConfig(r.configPath)
	if err != nil {
		return ctx, err
	}
	if err := config.Validate(); err != nil {
		return ctx, err
	}
	r.config = config
	return ctx, nil
}

// SetLogger replaces the logger used by the runner and anything it builds afterwards.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database handle, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) getTransport() services.Transport {
	if r.transport == nil {
		r.transport = services.NewHTTPTransport(services.TransportOpts{
			Client:  &http.Client{Timeout: r.config.HTTP.Timeout()},
			Limiter: services.NewLimiter(r.config.HTTP.RateLimit),
			Logger:  r.logger,
		})
	}
	return r.transport
}

func (r *Runner) getCache() *services.ServiceCache {
	if r.cache == nil {
		r.cache = services.NewServiceCache(services.SpotifyOpts{
			Transport: r.getTransport(),
			Endpoints: r.endpoints,
			Logger:    r.logger,
			Now:       r.now,
		})
	}
	return r.cache
}

func (r *Runner) getStore() (tokenstore.Store, error) {
	if r.store == nil {
		store, err := tokenstore.New(r.config, r.configPath)
		if err != nil {
			return nil, err
		}
		r.store = store
	}
	return r.store, nil
}

func (r *Runner) getVault() (vault.Vault, error) {
	if r.vault == nil {
		if r.config.Vault.Path == "" {
			return nil, fmt.Errorf("%w: vault.path must be set in %s", shared.ErrMissingConfig, r.configPath)
		}
		v, err := vault.NewFS(r.config.Vault.Path)
		if err != nil {
			return nil, err
		}
		r.vault = v
	}
	return r.vault, nil
}

// database opens the configured database once and brings its schema up to date.
func (r *Runner) database(ctx context.Context) (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return nil, err
	}
	if err := shared.MigrateUp(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	r.db = db
	return db, nil
}

func (r *Runner) credentials() services.Credentials {
	return services.Credentials{
		ClientID:     r.config.Credentials.Spotify.ClientID,
		ClientSecret: r.config.Credentials.Spotify.ClientSecret,
	}
}

// spotify returns the cached catalog client, loading saved user tokens when the client is first built.
func (r *Runner) spotify(ctx context.Context) (*services.SpotifyService, error) {
	store, err := r.getStore()
	if err != nil {
		return nil, err
	}

	persisted, err := store.Load(ctx)
	if err != nil {
		r.logger.Warn("failed to load saved tokens", "error", err)
		persisted = nil
	}

	svc, err := r.getCache().GetOrCreate(r.credentials(), persisted, r.persistToken)
	if errors.Is(err, shared.ErrMissingCredentials) {
		return nil, fmt.Errorf("%w: set credentials.spotify client_id and client_secret in %s", err, r.configPath)
	}
	return svc, err
}

// persistToken is the token manager's refresh callback.
func (r *Runner) persistToken(ctx context.Context, token *oauth2.Token) error {
	store, err := r.getStore()
	if err != nil {
		return err
	}
	if err := store.Save(ctx, token); err != nil {
		return fmt.Errorf("failed to persist refreshed token: %w", err)
	}
	r.logger.Debug("persisted refreshed token", "expiry", token.Expiry)
	return nil
}

func (r *Runner) creator(ctx context.Context, skipPlaylist bool) (*tasks.NoteCreator, error) {
	svc, err := r.spotify(ctx)
	if err != nil {
		return nil, err
	}
	v, err := r.getVault()
	if err != nil {
		return nil, err
	}
	db, err := r.database(ctx)
	if err != nil {
		return nil, err
	}

	vc := r.config.Vault
	playlistID := services.ExtractPlaylistID(vc.PlaylistID)
	if skipPlaylist {
		playlistID = ""
	}

	return tasks.NewNoteCreator(tasks.CreatorOpts{
		Catalog: svc,
		Vault:   v,
		Notes:   repositories.NewNoteRepository(db),
		Ledger:  repositories.NewPlaylistEntryRepository(db),
		Format: formatter.Options{
			Template: vc.NoteTemplate,
			Fields:   vc.Fields,
			Env:      formatter.Env{Now: r.now(), DateFormat: vc.DateFormat},
		},
		Folder:     vc.OutputFolder,
		Structure:  vc.NameStructure,
		Casing:     vc.NameCasing,
		PlaylistID: playlistID,
		Logger:     r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

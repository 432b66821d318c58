package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/votekeep/votekeep/internal/auth"
	apperrors "github.com/votekeep/votekeep/internal/errors"
	"github.com/votekeep/votekeep/internal/handlers"
	"github.com/votekeep/votekeep/internal/logger"
	"github.com/votekeep/votekeep/internal/repository"
	"github.com/votekeep/votekeep/internal/services"
	"github.com/votekeep/votekeep/internal/websocket"
	"github.com/votekeep/votekeep/pkg/identity"
)

// App holds all application dependencies
type App struct {
	log         logger.Logger
	handlers    *handlers.Handlers
	repo        *repository.Repository
	elections   *services.ElectionService
	hub         *websocket.Hub
	cancelSweep context.CancelFunc
}

// Options configures application construction
type Options struct {
	DBPath        string
	SweepInterval time.Duration
	// Identity resolves voter tokens. When nil, tokens are treated as
	// roster access codes and resolved against the local database.
	Identity identity.Client
}

// New creates and initializes a new application instance
func New(log logger.Logger, opts Options, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(opts.DBPath)
	if err != nil {
		return nil, err
	}

	// Initialize services
	electionService := services.NewElectionService(log, repo, nil)
	voterService := services.NewVoterService(log, repo)
	ballotService := services.NewBallotService(log, repo, electionService, nil)
	resultsService := services.NewResultsService(log, repo)

	identityClient := opts.Identity
	if identityClient == nil {
		identityClient = &accessCodeResolver{voters: voterService}
	}

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, electionService)
	hub.Start()

	// Initialize handlers with hub
	h := handlers.New(
		electionService,
		voterService,
		ballotService,
		resultsService,
		identityClient,
		adminAuth,
		hub,
		log,
	)

	a := &App{
		log:       log,
		handlers:  h,
		repo:      repo,
		elections: electionService,
		hub:       hub,
	}

	// Start status sweep with context for graceful shutdown
	if opts.SweepInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		a.cancelSweep = cancel
		go a.runStatusSweep(ctx, opts.SweepInterval)
	}

	return a, nil
}

// runStatusSweep periodically recomputes election statuses so windows
// open and close without an admin request
func (a *App) runStatusSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("Status sweep stopped")
			return
		case <-ticker.C:
			changes, failures, err := a.elections.ResolveAndPersistAll(ctx)
			if err != nil {
				a.log.Error("Status sweep failed", "error", err)
				continue
			}
			for _, f := range failures {
				a.log.Warn("Status sweep skipped election", "election_id", f.ElectionID, "error", f.Err)
			}
			for _, change := range changes {
				a.hub.BroadcastStatusChange(change)
			}
		}
	}
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.cancelSweep != nil {
		a.cancelSweep()
	}
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	ip := getPreferredIP(realNetworkProvider{})
	baseURL := fmt.Sprintf("http://%s%s", ip, addr)

	a.log.Info("Server starting", "url", baseURL)
	return http.ListenAndServe(addr, a.Router())
}

// accessCodeResolver resolves voter tokens against the local roster,
// used when no external identity provider is configured
type accessCodeResolver struct {
	voters services.VoterServicer
}

func (r *accessCodeResolver) BaseURL() string { return "local" }

func (r *accessCodeResolver) ResolveCaller(ctx context.Context, token string) (*identity.Caller, error) {
	if token == "" {
		return &identity.Caller{Kind: identity.KindAnonymous}, nil
	}
	voter, err := r.voters.GetVoterByAccessCode(ctx, token)
	if err != nil {
		var appErr *apperrors.Error
		if errors.Is(err, repository.ErrNotFound) ||
			(errors.As(err, &appErr) && appErr.Kind == apperrors.ErrNotFound) {
			return &identity.Caller{Kind: identity.KindAnonymous}, nil
		}
		return nil, err
	}
	return &identity.Caller{Kind: identity.KindVoter, VoterID: voter.ID}, nil
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/velocityridge/internal/audio"
	"github.com/tomz197/velocityridge/internal/config"
	"github.com/tomz197/velocityridge/internal/draw"
	"github.com/tomz197/velocityridge/internal/game"
	"github.com/tomz197/velocityridge/internal/loop"
	lconfig "github.com/tomz197/velocityridge/internal/loop/config"
	"github.com/tomz197/velocityridge/internal/loop/server"
	"github.com/tomz197/velocityridge/internal/score"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultScoreFile   = "/app/data/velocityridge.scores"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "ssh"})
	if err := config.Load(); err != nil {
		logger.Fatal("loading config", "err", err)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	scoreFile := config.GetEnv("VR_SCORE_FILE", defaultScoreFile)
	shutdownWait := config.GetEnvDuration("VR_SHUTDOWN_WAIT", 15*time.Second)
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath, "scores", scoreFile)

	cfg := game.DefaultConfig()
	cfg.BaseTime = config.GetEnvFloat("VR_BASE_TIME", cfg.BaseTime)

	// Shared by every connection
	hub := server.NewServer(score.OpenFile(scoreFile), lconfig.LeaderboardSize, logger)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(hub, &cfg, logger),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "players", hub.Players())

	// Notify players and wait for them to disconnect
	hub.Shutdown(shutdownWait)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware runs one game client per SSH session.
func gameMiddleware(hub *server.Server, cfg *game.Config, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			logger.Info("new game session", "user", sess.User(), "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			c := loop.NewClient(bufio.NewReader(sess), sess, loop.Options{
				TermSizeFunc:   sizeTracker.getSize,
				Username:       sess.User(),
				Hub:            hub,
				Logger:         logger.With("user", sess.User()),
				DisconnectIdle: true,
				Game: game.Options{
					Config: cfg,
					Audio:  audio.NewBell(sess),
				},
			})
			if err := c.Run(sess.Context()); err != nil {
				logger.Error("game error", "user", sess.User(), "err", err)
			}

			logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize

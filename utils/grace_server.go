package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	serverReadTimeout  = 60 * time.Second
	serverWriteTimeout = 60 * time.Second
	shutdownTimeout    = 30 * time.Second

	inheritEnvKey   = "LISTENER_INHERITED"
	inheritEnvPair  = inheritEnvKey + "=1"
	inheritedFdSlot = 3
)

// graceServer supports zero-downtime restarts: SIGUSR2 forks a child that
// inherits the listening socket, SIGTERM drains in-flight requests.
type graceServer struct {
	httpServer *http.Server
	listener   net.Listener
	inherited  bool
	done       chan struct{}
}

// GraceServer serves handler on addr until SIGTERM, restarting in place
// on SIGUSR2.
func GraceServer(addr string, handler http.Handler) error {
	srv := &graceServer{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  serverReadTimeout,
			WriteTimeout: serverWriteTimeout,
		},
		inherited: os.Getenv(inheritEnvKey) != "",
		done:      make(chan struct{}),
	}
	return srv.listenAndServe()
}

func (srv *graceServer) listenAndServe() error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.listener = ln

	go srv.watchSignals()

	err = srv.httpServer.Serve(ln)
	// Serve returns as soon as the listener closes; wait for Shutdown to
	// finish draining before letting main exit.
	<-srv.done
	return err
}

func (srv *graceServer) listen() (net.Listener, error) {
	if srv.inherited {
		ln, err := net.FileListener(os.NewFile(inheritedFdSlot, ""))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", srv.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", srv.httpServer.Addr, err)
	}
	return ln, nil
}

func (srv *graceServer) watchSignals() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGUSR2)

	for sig := range sigs {
		switch sig {
		case syscall.SIGTERM:
			Sugar.Info("SIGTERM received, draining HTTP server")
			srv.shutdown()
		case syscall.SIGUSR2:
			Sugar.Info("SIGUSR2 received, forking replacement process")
			pid, err := srv.forkChild()
			if err != nil {
				Sugar.Errorf("restart failed, keeping current process: %v", err)
				continue
			}
			Sugar.Infof("replacement process started, pid=%d", pid)
			srv.shutdown()
		}
	}
}

func (srv *graceServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.httpServer.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown: %v", err)
	} else {
		Sugar.Info("HTTP server stopped")
	}
	close(srv.done)
}

func (srv *graceServer) forkChild() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is %T, cannot pass to child", srv.listener)
	}
	lnFile, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("dup listener fd: %w", err)
	}

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != inheritEnvPair {
			env = append(env, e)
		}
	}
	env = append(env, inheritEnvPair)

	pid, err := syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), lnFile.Fd()},
	})
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}

// Package main is the entry point for the cognitive-engine CLI: a
// tiered cognitive processing engine with budget-aware model routing,
// an internal mind for listening/synthesis, and social intelligence for
// deciding when to speak.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cortexlabs/cogengine/internal/a2a"
	"github.com/cortexlabs/cogengine/internal/budget"
	"github.com/cortexlabs/cogengine/internal/config"
	"github.com/cortexlabs/cogengine/internal/llm"
	"github.com/cortexlabs/cogengine/internal/logging"
	"github.com/cortexlabs/cogengine/internal/memory"
	"github.com/cortexlabs/cogengine/internal/metrics"
	"github.com/cortexlabs/cogengine/internal/mind"
	"github.com/cortexlabs/cogengine/internal/modelrouter"
	"github.com/cortexlabs/cogengine/internal/processor"
	"github.com/cortexlabs/cogengine/internal/profile"
	"github.com/cortexlabs/cogengine/internal/promptbuilder"
	"github.com/cortexlabs/cogengine/internal/social"
	"github.com/cortexlabs/cogengine/internal/thought"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

var (
	version    = "0.1.0"
	cfgPath    string
	agentID    string
	agentName  string
	agentRole  string
	verbose    bool
	log        *logging.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cognitive-engine",
		Short: "Tiered cognitive processing engine",
		Long: `cognitive-engine routes a stimulus through reflex/reactive/deliberate/
analytical/comprehensive cognitive tiers, budgets inference spend per
hour, accumulates thoughts into an internal mind, and decides when an
agent should speak.

One-shot:  cognitive-engine process "the deploy just failed"
Long-lived: cognitive-engine serve`,
		PersistentPreRunE: initLogging,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.cogengine/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&agentID, "agent-id", "", "agent UUID (generated if empty)")
	rootCmd.PersistentFlags().StringVar(&agentName, "agent-name", "Cogito", "agent display name")
	rootCmd.PersistentFlags().StringVar(&agentRole, "agent-role", "participant", "agent role (facilitator, expert, participant, observer, leader, junior)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cognitive-engine v%s\n", version)
		},
	})
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogging(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	logDir := filepath.Join(home, ".cogengine", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to create log directory: %v\n", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFile := filepath.Join(logDir, fmt.Sprintf("cognitive-engine_%s.log", timestamp))

	var cfg *logging.Config
	if verbose {
		cfg = logging.VerboseConfig()
	} else {
		cfg = logging.DefaultConfig()
	}
	cfg.FilePath = logFile

	log = logging.New(cfg)
	logging.SetGlobal(log)

	// a2a-go and the Prometheus client log through zerolog's global
	// logger; redirect it alongside our own file so a single log
	// directory captures everything.
	zerologPath := filepath.Join(logDir, fmt.Sprintf("cognitive-engine_zerolog_%s.log", timestamp))
	if zerologFile, err := os.OpenFile(zerologPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err != nil {
		log.Warn("failed to redirect zerolog: %v", err)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		fileLogger := zerolog.New(zerolog.ConsoleWriter{Out: zerologFile, NoColor: true}).With().Timestamp().Logger()
		zlog.Logger = fileLogger
	}

	log.Info("cognitive-engine session started - logging to %s", logFile)
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFromPath(cfgPath)
	}
	return config.Load()
}

func buildAgent() profile.AgentProfile {
	id := uuid.New()
	if agentID != "" {
		if parsed, err := uuid.Parse(agentID); err == nil {
			id = parsed
		}
	}
	return profile.AgentProfile{
		AgentID: id,
		Name:    agentName,
		Role:    agentRole,
		Skills:  profile.Skills{},
	}
}

// engine bundles every wired component one agent needs: budgeted,
// health-aware routing; tiered processing; an internal mind with
// background synthesis; and social intelligence over that mind.
type engine struct {
	agent       profile.AgentProfile
	cfg         *config.Config
	router      *modelrouter.Router
	budgetMgr   *budget.Manager
	proc        *processor.Processor
	mindState   *mind.Mind
	accumulator *mind.Accumulator
	background  *mind.BackgroundProcessor
	social      *social.Intelligence
	memoryStore memory.ContextProvider
	metricsReg  *metrics.Registry
}

func buildEngine(cfg *config.Config, agent profile.AgentProfile) *engine {
	clients := llm.BuildClients(map[tiers.ModelTier]llm.ClientConfig{
		tiers.Small:  {Backend: cfg.LLM.Small.Backend, Model: cfg.LLM.Small.Model, APIKey: cfg.LLM.Small.APIKey},
		tiers.Medium: {Backend: cfg.LLM.Medium.Backend, Model: cfg.LLM.Medium.Model, APIKey: cfg.LLM.Medium.APIKey},
		tiers.Large:  {Backend: cfg.LLM.Large.Backend, Model: cfg.LLM.Large.Model, APIKey: cfg.LLM.Large.APIKey},
	})

	budgetMgr := budget.NewManager(cfg.CognitiveEngine.Budget.ToBudgetConfig())
	router := modelrouter.New(clients, budgetMgr, log)
	proc := processor.New(agent, router)

	mindState := mind.New(agent.AgentID.String(), log)
	accumulator := mind.NewAccumulator(mindState, proc)
	background := mind.NewBackgroundProcessor(mindState, accumulator, cfg.CognitiveEngine.Background.ToMindBackgroundConfig())
	social := social.New(agent, mindState)

	var memStore memory.ContextProvider
	if cfg.Memory.Backend == "redis" {
		memStore = memory.NewRedisProvider(memory.RedisConfig{Addr: cfg.Memory.Addr, DB: cfg.Memory.DB})
	} else {
		memStore = memory.NewInMemoryProvider(0)
	}

	var metricsReg *metrics.Registry
	if cfg.Metrics.Enabled {
		metricsReg = metrics.NewRegistry()
	}

	return &engine{
		agent:       agent,
		cfg:         cfg,
		router:      router,
		budgetMgr:   budgetMgr,
		proc:        proc,
		mindState:   mindState,
		accumulator: accumulator,
		background:  background,
		social:      social,
		memoryStore: memStore,
		metricsReg:  metricsReg,
	}
}

func (e *engine) observe(result thought.CognitiveResult) {
	if e.metricsReg == nil {
		return
	}
	history := e.router.GetRoutingHistory(len(result.TiersUsed))
	for _, d := range history {
		e.metricsReg.ObserveRouting(d.CognitiveTier, d.TargetModelTier, d.ActualModelTier, d.DowngradeReason, result.ProcessingTimeMs/1000/float64(len(result.TiersUsed)+1))
	}
	e.metricsReg.ObserveBudget(e.budgetMgr.GetStatus())
	e.metricsReg.ThoughtsActive.Set(float64(e.mindState.GetState().ActiveThoughts))
}

func processCmd() *cobra.Command {
	var urgency, complexity, relevance float64
	var purpose, topic string

	cmd := &cobra.Command{
		Use:   "process [stimulus]",
		Short: "Run a single stimulus through the cognitive engine and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			e := buildEngine(cfg, buildAgent())
			defer e.memoryStore.Close()

			ctx := context.Background()
			relevantMemory, _ := e.memoryStore.Fetch(ctx, e.agent.AgentID.String(), topic, 5)

			result, err := e.proc.Process(ctx, args[0], urgency, complexity, relevance, purpose, promptContext(relevantMemory, topic))
			if err != nil {
				return fmt.Errorf("process: %w", err)
			}

			printResult(result)
			e.observe(result)

			stimulus := social.NewStimulus(args[0], "cli", "operator", topic)
			decision := e.social.ShouldISpeak(stimulus, social.Context{MyRole: e.agent.Role, GroupSize: 1})
			fmt.Printf("speak=%v intent=%s reason=%s\n", decision.ShouldSpeak(), decision.Intent, decision.Reason)

			if topic != "" {
				_ = e.memoryStore.Remember(ctx, e.agent.AgentID.String(), memory.Entry{Topic: topic, Content: args[0]})
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&urgency, "urgency", 0.5, "stimulus urgency (0-1)")
	cmd.Flags().Float64Var(&complexity, "complexity", 0.5, "stimulus complexity (0-1)")
	cmd.Flags().Float64Var(&relevance, "relevance", 0.7, "stimulus relevance to this agent (0-1)")
	cmd.Flags().StringVar(&purpose, "purpose", "", "purpose label attached to this run")
	cmd.Flags().StringVar(&topic, "topic", "", "topic key for remembering and recalling relevant memory")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the background processor, metrics endpoint, and A2A server for one agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			e := buildEngine(cfg, buildAgent())
			defer e.memoryStore.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			e.background.Start(ctx)
			defer e.background.Stop()
			log.Info("background processor started for agent %s (%s)", e.agent.Name, e.agent.AgentID)

			var servers []interface{ Shutdown(context.Context) error }

			if cfg.Metrics.Enabled {
				srv := startMetricsServer(cfg.Metrics.Addr, e.metricsReg)
				servers = append(servers, srv)
				log.Info("metrics listening on %s", cfg.Metrics.Addr)
			}

			if cfg.A2A.Enabled {
				srv := startA2AServer(cfg.A2A.Port, e.proc, e.agent.Name)
				servers = append(servers, srv)
				log.Info("a2a server listening on :%d", cfg.A2A.Port)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Info("shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			for _, srv := range servers {
				_ = srv.Shutdown(shutdownCtx)
			}
			return nil
		},
	}
	return cmd
}

func promptContext(relevantMemory, topic string) promptbuilder.Context {
	return promptbuilder.Context{
		RelevantMemory: relevantMemory,
		StreamTopic:    topic,
	}
}

func startMetricsServer(addr string, reg *metrics.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server: %v", err)
		}
	}()
	return srv
}

func startA2AServer(port int, proc a2a.Processor, agentID string) *http.Server {
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: a2a.NewServer(proc, agentID, port)}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("a2a server: %v", err)
		}
	}()
	return srv
}

func printResult(result thought.CognitiveResult) {
	if result.PrimaryThought == nil {
		fmt.Println("(no contribution produced)")
		return
	}
	t := result.PrimaryThought
	fmt.Printf("[%s] %s\n", t.Type, t.Content)
	fmt.Printf("confidence=%.2f completeness=%.2f tier=%s thoughts=%d\n", t.Confidence, t.Completeness, t.Tier, len(result.Thoughts))
}

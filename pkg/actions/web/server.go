package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	xrate "golang.org/x/time/rate"

	"github.com/code-payments/code-actions/pkg/actions"
	"github.com/code-payments/code-actions/pkg/metrics"
	"github.com/code-payments/code-actions/pkg/netutil"
	"github.com/code-payments/code-actions/pkg/rate"
)

const (
	actionsManifestPath = "/actions.json"

	apiPathPrefix = "/api"
	stakePath     = apiPathPrefix + "/stake"
	createPath    = apiPathPrefix + "/create"
	payPath       = apiPathPrefix + "/pay/{token_mint}/{receiver}"

	actionVersionHeaderName  = "X-Action-Version"
	actionVersionHeaderValue = "2.1.3"
	blockchainIdHeaderName   = "X-Blockchain-Ids"
	blockchainIdHeaderValue  = "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp"

	transactionEventName          = "ActionTransaction"
	transactionDurationMetricName = "actions.web.transaction_duration"
	transactionFailureMetricName  = "actions.web.transaction_failure"
)

// Server exposes the action flows over HTTP.
type Server struct {
	log     *logrus.Entry
	conf    *conf
	service *actions.Service
	limiter rate.Limiter
	router  chi.Router
}

func NewServer(service *actions.Service, configProvider ConfigProvider) *Server {
	s := &Server{
		log:     logrus.StandardLogger().WithField("type", "actions/web"),
		conf:    configProvider(),
		service: service,
	}

	limit := s.conf.rateLimit.Get(context.Background())
	if limit > 0 {
		s.limiter = rate.NewLocalRateLimiter(xrate.Limit(limit))
	} else {
		s.limiter = &rate.NoLimiter{}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get(actionsManifestPath, s.actionsManifestHandler)
	r.Route(apiPathPrefix, func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)

		r.Get("/stake", s.getStakeHandler(stakePath))
		r.Post("/stake", s.postStakeHandler(stakePath))

		r.Get("/create", s.getCreateHandler(createPath))
		r.Post("/create", s.postCreateHandler(createPath))

		r.Get("/pay/{token_mint}/{receiver}", s.getPayHandler(payPath))
		r.Post("/pay/{token_mint}/{receiver}", s.postPayHandler(payPath))
	})
	s.router = r

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Content-Encoding, Accept-Encoding, X-Accept-Action-Version, X-Accept-Blockchain-Ids")
		w.Header().Set("Access-Control-Expose-Headers", "X-Action-Version, X-Blockchain-Ids")
		w.Header().Set(actionVersionHeaderName, actionVersionHeaderValue)
		w.Header().Set(blockchainIdHeaderName, blockchainIdHeaderValue)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := netutil.GetClientIP(r)

		allowed, err := s.limiter.Allow(ip)
		if err != nil {
			s.log.WithError(err).Warn("failure checking rate limit")
		} else if !allowed {
			s.log.WithField("ip", ip).Debug("rate limited")
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) actionsManifestHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &actionsManifest{
		Rules: []actionsRule{
			{PathPattern: "/**", APIPath: "/api/**"},
		},
	})
}

func (s *Server) getStakeHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, &actionMetadata{
			Icon:        s.conf.stakeIcon.Get(r.Context()),
			Title:       "Stake KMNO",
			Description: "Stake your KMNO to boost points, vote on proposals, and earn rewards in Kamino Finance",
			Label:       "Stake",
			Links: &actionLinks{
				Actions: []linkedAction{
					{
						Label:      "Stake",
						Href:       path + "?amount={amount}&method=stake",
						Parameters: []linkedActionParameter{{Label: "Amount", Name: "amount", Required: true}},
					},
					{
						Label:      "Unstake",
						Href:       path + "?amount={amount}&method=unstake",
						Parameters: []linkedActionParameter{{Label: "Amount", Name: "amount", Required: true}},
					},
					{
						Label:      "Withdraw",
						Href:       path + "?amount={amount}&method=withdraw",
						Parameters: []linkedActionParameter{{Label: "Amount", Name: "amount", Required: true}},
					},
				},
			},
		})
	}
}

func (s *Server) postStakeHandler(path string) http.HandlerFunc {
	return s.transactionHandler(path, func(r *http.Request) (*actions.UnsignedTransaction, error) {
		owner, err := parseAccount(r)
		if err != nil {
			return nil, err
		}

		method, err := actions.ParseStakeMethod(r.URL.Query().Get("method"))
		if err != nil {
			return nil, err
		}

		return s.service.StakeAmount(r.Context(), owner, method, r.URL.Query().Get("amount"))
	})
}

func (s *Server) getCreateHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, &actionMetadata{
			Icon:        s.conf.multisigIcon.Get(r.Context()),
			Title:       "Create your multisig | SQUADS V3",
			Description: "The most secure and intuitive way to manage on-chain assets individually or together with your team",
			Label:       "Create!",
			Links: &actionLinks{
				Actions: []linkedAction{
					{
						Label: "Create!",
						Href:  path + "?name={name}&description={description}",
						Parameters: []linkedActionParameter{
							{Label: "Squad name (max 36 characters)", Name: "name", Required: true},
							{Label: "Squad description (max 64 characters)", Name: "description", Required: true},
						},
					},
				},
			},
		})
	}
}

func (s *Server) postCreateHandler(path string) http.HandlerFunc {
	return s.transactionHandler(path, func(r *http.Request) (*actions.UnsignedTransaction, error) {
		owner, err := parseAccount(r)
		if err != nil {
			return nil, err
		}

		query := r.URL.Query()
		return s.service.CreateMultisig(r.Context(), owner, query.Get("name"), query.Get("description"))
	})
}

func (s *Server) getPayHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)

		tokenMintValue := chi.URLParam(r, "token_mint")
		receiverValue := chi.URLParam(r, "receiver")

		statusCode, body := func() (int, interface{}) {
			tokenMint, err := actions.ParseAccount("token_mint", tokenMintValue)
			if err != nil {
				return s.failure(log, err)
			}
			if _, err := actions.ParseAccount("receiver", receiverValue); err != nil {
				return s.failure(log, err)
			}

			info, err := s.service.TokenInfo(r.Context(), "token_mint", tokenMint)
			if err != nil {
				return s.failure(log, err)
			}

			return http.StatusOK, &actionMetadata{
				Icon:        s.conf.payIcon.Get(r.Context()),
				Title:       "Pay with SEND using any Solana token",
				Description: fmt.Sprintf("Pay in %s and %s receives in SEND", info.Symbol, formatPublicKey(receiverValue, 10)),
				Label:       "Send payment!",
				Links: &actionLinks{
					Actions: []linkedAction{
						{
							Label:      "Send payment!",
							Href:       fmt.Sprintf("%s/pay/%s/%s?amount={amount}", apiPathPrefix, tokenMintValue, receiverValue),
							Parameters: []linkedActionParameter{{Label: "Amount", Name: "amount", Required: true}},
						},
					},
				},
			}
		}()

		writeJSON(w, statusCode, body)
	}
}

func (s *Server) postPayHandler(path string) http.HandlerFunc {
	return s.transactionHandler(path, func(r *http.Request) (*actions.UnsignedTransaction, error) {
		payer, err := parseAccount(r)
		if err != nil {
			return nil, err
		}

		tokenMint, err := actions.ParseAccount("token_mint", chi.URLParam(r, "token_mint"))
		if err != nil {
			return nil, err
		}

		receiver, err := actions.ParseAccount("receiver", chi.URLParam(r, "receiver"))
		if err != nil {
			return nil, err
		}

		return s.service.Pay(r.Context(), payer, tokenMint, receiver, r.URL.Query().Get("amount"))
	})
}

type buildFunc func(r *http.Request) (*actions.UnsignedTransaction, error)

func (s *Server) transactionHandler(path string, build buildFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := metrics.TraceMethodCall(r.Context(), "actions.web", path)
		defer tracer.End()

		log := s.log.WithField("path", path)

		ctx := r.Context()
		if timeout := s.conf.requestTimeout.Get(ctx); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		statusCode, body := func() (int, interface{}) {
			txn, err := build(r.WithContext(ctx))
			if err != nil {
				tracer.OnError(err)
				metrics.RecordCount(ctx, transactionFailureMetricName, 1)
				return s.failure(log, err)
			}
			return http.StatusOK, newActionPostResponse(txn)
		}()

		metrics.RecordDuration(ctx, transactionDurationMetricName, time.Since(start))
		metrics.RecordEvent(ctx, transactionEventName, map[string]interface{}{
			"path":        path,
			"status_code": statusCode,
		})

		writeJSON(w, statusCode, body)
	}
}

func (s *Server) failure(log *logrus.Entry, err error) (int, interface{}) {
	statusCode, message := statusFromError(err)
	if statusCode >= http.StatusInternalServerError {
		log.WithError(err).Warn("failure handling action request")
	}
	return statusCode, &actionError{Message: message}
}

// Package server 成员检索的 HTTP 接口
package server

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cast"

	"github.com/tx7do/go-crud-member/audit"
	"github.com/tx7do/go-crud-member/viewer"
)

const (
	headerUserID    = "X-User-Id"
	headerUserName  = "X-User-Name"
	headerRequestID = "X-Request-Id"
	headerForwarded = "X-Forwarded-For"
)

// NewHTTPServer 创建 HTTP 服务并注册成员接口与 /metrics
func NewHTTPServer(addr string, timeout time.Duration, svc *MemberService, logger log.Logger) *khttp.Server {
	if logger == nil {
		logger = log.GetLogger()
	}

	opts := []khttp.ServerOption{
		khttp.Filter(ViewerFilter(), AuditFilter(audit.NewLogAuditor(logger))),
	}
	if addr != "" {
		opts = append(opts, khttp.Address(addr))
	}
	if timeout > 0 {
		opts = append(opts, khttp.Timeout(timeout))
	}

	srv := khttp.NewServer(opts...)
	svc.Register(srv)
	srv.Handle("/metrics", promhttp.Handler())
	return srv
}

// ViewerFilter 从请求头解析访问者，写入请求 context
func ViewerFilter() khttp.FilterFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			vc := viewer.Static{
				ID:      cast.ToUint64(r.Header.Get(headerUserID)),
				Name:    r.Header.Get(headerUserName),
				IP:      clientIP(r),
				Trace:   r.Header.Get(headerRequestID),
				Audited: true,
			}
			next.ServeHTTP(w, r.WithContext(viewer.WithContext(r.Context(), vc)))
		})
	}
}

// AuditFilter 为请求挂载审计器，批量修改会记录到 a
func AuditFilter(a audit.Auditor) khttp.FilterFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(audit.WithAuditor(r.Context(), a)))
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get(headerForwarded); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package handlers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/yournet/ledger/business/core/feed"
	"github.com/yournet/ledger/business/web/errs"
	"github.com/yournet/ledger/foundation/blockchain/client"
	"github.com/yournet/ledger/foundation/blockchain/state"
	"github.com/yournet/ledger/foundation/web"
	"go.uber.org/zap"
)

//go:embed templates
var templates embed.FS

// feedCacheSize is the number of chain tips whose feed is kept around.
const feedCacheSize = 16

type index struct {
	log     *zap.SugaredLogger
	node    *client.Client
	nodeURL string
	tmpl    *template.Template
	feeds   *lru.Cache
}

func newIndex(log *zap.SugaredLogger, node *client.Client, nodeURL string) (*index, error) {
	funcs := template.FuncMap{
		"short": func(hash string) string {
			if len(hash) > 12 {
				return hash[:12]
			}
			return hash
		},
		"when": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
	}

	tmpl, err := template.New("index.html").Funcs(funcs).ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}

	feeds, err := lru.New(feedCacheSize)
	if err != nil {
		return nil, err
	}

	ig := index{
		log:     log,
		node:    node,
		nodeURL: nodeURL,
		tmpl:    tmpl,
		feeds:   feeds,
	}

	return &ig, nil
}

// show renders the feed of every record on the node's chain.
func (ig *index) show(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain, err := ig.node.Chain(ctx)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("reading chain from node: %w", err), http.StatusBadGateway)
	}

	data := struct {
		NodeURL string
		Length  int
		Peers   []string
		Posts   []feed.Post
		Message string
	}{
		NodeURL: ig.nodeURL,
		Length:  chain.Length,
		Peers:   chain.Peers,
		Posts:   ig.posts(chain),
		Message: r.URL.Query().Get("msg"),
	}

	var b bytes.Buffer
	if err := ig.tmpl.Execute(&b, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	web.SetStatusCode(ctx, http.StatusOK)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = b.WriteTo(w)

	return err
}

// posts returns the feed for the chain. A chain is identified by its tip
// hash so the feed is only rebuilt when the chain changes.
func (ig *index) posts(chain state.Chain) []feed.Post {
	if len(chain.Blocks) == 0 {
		return nil
	}
	tip := chain.Blocks[len(chain.Blocks)-1].Hash

	if v, ok := ig.feeds.Get(tip); ok {
		return v.([]feed.Post)
	}

	posts := feed.Build(chain.Blocks)
	ig.feeds.Add(tip, posts)

	return posts
}

// submit posts the form content to the node and sends the reader back to
// the feed.
func (ig *index) submit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	if err := r.ParseForm(); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	author := strings.TrimSpace(r.PostForm.Get("author"))
	content := strings.TrimSpace(r.PostForm.Get("content"))

	msg := "Posted, the content shows up once a block is mined."
	if _, err := ig.node.Submit(ctx, author, content); err != nil {
		ig.log.Infow("submit", "traceid", v.TraceID, "ERROR", err)
		msg = "The node refused the post: " + err.Error()
	}

	web.SetStatusCode(ctx, http.StatusSeeOther)
	http.Redirect(w, r, "/?msg="+url.QueryEscape(msg), http.StatusSeeOther)

	return nil
}

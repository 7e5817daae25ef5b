// bioctl は bio サイト API の管理用 CLI
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/bioweb/backend/pkg/client"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: bioctl [-server URL] <command> [args]

Commands:
  login [username]                      管理者としてログインしトークンを保存
  logout                                保存済みトークンを削除
  whoami                                トークンをサーバーで検証
  profile                               公開プロフィールを表示
  projects [-all]                       プロジェクト一覧（-all は非公開も含む）
  articles [-all] [-category ID]        記事一覧
  upload [-save] [-target ID] KIND FILE ファイルをアップロード
                                        KIND: avatar, cv, project-thumbnail, article-thumbnail

Environment:
  BIOCTL_SERVER       API のベース URL（既定 http://localhost:8080）
  BIOCTL_TOKEN_FILE   トークンの保存先`)
	os.Exit(2)
}

func main() {
	server := flag.String("server", envOr("BIOCTL_SERVER", "http://localhost:8080"), "API base URL")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
	}

	tokenPath := os.Getenv("BIOCTL_TOKEN_FILE")
	if tokenPath == "" {
		p, err := client.DefaultTokenPath()
		if err != nil {
			fail(err)
		}
		tokenPath = p
	}
	c := client.New(*server, client.WithTokenStore(client.NewFileTokenStore(tokenPath)))

	ctx := context.Background()
	args := flag.Args()[1:]
	var err error
	switch flag.Arg(0) {
	case "login":
		err = runLogin(ctx, c, args)
	case "logout":
		err = c.Logout()
		if err == nil {
			fmt.Println("logged out")
		}
	case "whoami":
		err = runWhoami(ctx, c)
	case "profile":
		err = runProfile(ctx, c)
	case "projects":
		err = runProjects(ctx, c, args)
	case "articles":
		err = runArticles(ctx, c, args)
	case "upload":
		err = runUpload(ctx, c, args)
	default:
		usage()
	}
	if err != nil {
		fail(err)
	}
}

func runLogin(ctx context.Context, c *client.Client, args []string) error {
	username := envOr("BIOCTL_USERNAME", "")
	if len(args) > 0 {
		username = args[0]
	}
	if username == "" {
		return errors.New("username is required")
	}
	password := os.Getenv("BIOCTL_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = string(b)
	}

	tok, err := c.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (token expires %s)\n", username, tok.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func runWhoami(ctx context.Context, c *client.Client) error {
	id, err := c.ValidateToken(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s, via %s)\n", id.Username, id.Role, id.Method)
	return nil
}

func runProfile(ctx context.Context, c *client.Client) error {
	p, err := c.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n\n%s\n\nviews: %d\n", p.FullName, p.JobTitle, p.BioSummary, p.ViewCount)
	return nil
}

func runProjects(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("projects", flag.ExitOnError)
	all := fs.Bool("all", false, "include unpublished projects (admin)")
	_ = fs.Parse(args)

	var (
		ps  []client.Project
		err error
	)
	if *all {
		ps, err = c.AllProjects(ctx)
	} else {
		ps, err = c.Projects(ctx)
	}
	if err != nil {
		return err
	}
	for _, p := range ps {
		status := ""
		if !p.IsPublished {
			status = " [draft]"
		}
		fmt.Printf("%4d  %-30s %s%s\n", p.ID, p.Name, p.Technologies, status)
	}
	return nil
}

func runArticles(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("articles", flag.ExitOnError)
	all := fs.Bool("all", false, "include drafts (admin)")
	category := fs.Int64("category", 0, "only this category id")
	_ = fs.Parse(args)

	var (
		as  []client.Article
		err error
	)
	if *all {
		as, err = c.AllArticles(ctx)
	} else {
		as, err = c.Articles(ctx, *category)
	}
	if err != nil {
		return err
	}
	for _, a := range as {
		status := ""
		if !a.IsPublished {
			status = " [draft]"
		}
		fmt.Printf("%4d  %-40s %s%s\n", a.ID, a.Title, a.CategoryName, status)
	}
	return nil
}

func runUpload(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	save := fs.Bool("save", false, "store the URL on the owning record")
	target := fs.Int64("target", 0, "project or article id for thumbnails")
	_ = fs.Parse(args)
	if fs.NArg() != 2 {
		return errors.New("usage: bioctl upload [-save] [-target ID] KIND FILE")
	}
	kind, path := fs.Arg(0), fs.Arg(1)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := c.Upload(ctx, kind, filepath.Base(path), f, client.UploadOptions{AutoSave: *save, TargetID: *target})
	if err != nil {
		return err
	}
	fmt.Printf("uploaded %s -> %s (%d bytes)\n", res.OriginalFileName, res.URL, res.Size)
	if res.Saved {
		fmt.Println("saved to record")
	}
	return nil
}

func fail(err error) {
	msg := err.Error()
	switch {
	case client.IsKind(err, client.KindConnectivity):
		msg = "cannot reach the server; is it running?"
	case client.IsKind(err, client.KindTimeout):
		msg = "the server did not answer in time"
	case client.IsUnauthorized(err):
		msg = strings.TrimSpace(msg + " (try: bioctl login)")
	}
	fmt.Fprintln(os.Stderr, "error:", msg)
	os.Exit(1)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

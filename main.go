package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/ByLCY/tuwen/binding"
	"github.com/ByLCY/tuwen/config"
	"github.com/ByLCY/tuwen/layout"
	"github.com/ByLCY/tuwen/media"
	canvasrenderer "github.com/ByLCY/tuwen/renderer/canvas"
	"github.com/ByLCY/tuwen/segment"
)

// appEnv 在 Before/Action 之间传递配置与日志。
type appEnv struct {
	cfg *config.Config
	log *zap.Logger
}

type envKeyType struct{}

var envKey envKeyType

func envFrom(ctx context.Context) *appEnv {
	if env, ok := ctx.Value(envKey).(*appEnv); ok {
		return env
	}
	return &appEnv{cfg: config.Default(), log: zap.NewNop()}
}

func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, fmt.Errorf("加载配置失败: %w", err)
	}
	env := &appEnv{cfg: cfg, log: cfg.Logging.Prepare()}
	env.log.Debug("程序启动", zap.Strings("args", os.Args))
	return context.WithValue(ctx, envKey, env), nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) error {
	_ = envFrom(ctx).log.Sync()
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "tuwen",
		Usage:           "把图文混排内容分页成等比例的卡片图",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "从 `FILE` 加载 YAML 配置"},
		},
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "分页并渲染为 PNG 卡片",
				ArgsUsage: "CONTENT",
				Action:    runRender,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "image", Aliases: []string{"i"}, Usage: "按标记顺序提供图片 `FILE`，可重复"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "output", Usage: "PNG 输出`目录`"},
					&cli.StringFlag{Name: "data", Usage: "用于占位符替换的 `JSON` 数据"},
					&cli.StringFlag{Name: "debug-json", Usage: "把分页结果另存为调试 JSON `FILE`"},
				},
			},
			{
				Name:      "pages",
				Usage:     "只做分页，输出页面结构 JSON",
				ArgsUsage: "CONTENT",
				Action:    runPages,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "image", Aliases: []string{"i"}, Usage: "按标记顺序提供图片 `FILE`，可重复"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "-", Usage: "JSON 输出路径，- 表示标准输出"},
					&cli.StringFlag{Name: "data", Usage: "用于占位符替换的 `JSON` 数据"},
				},
			},
			{
				Name:      "tidy",
				Usage:     "整理图片标记：剔除无效引用并重排编号",
				ArgsUsage: "CONTENT",
				Action:    runTidy,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "image", Aliases: []string{"i"}, Usage: "可用图片 `FILE` 列表，可重复"},
				},
			},
		},
	}

	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "执行失败: %v\n", err)
		os.Exit(1)
	}
}

// loadContent 读入正文并按需完成占位符替换。
func loadContent(cmd *cli.Command) (string, error) {
	path := cmd.Args().Get(0)
	if path == "" {
		return "", fmt.Errorf("缺少内容文件参数")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取内容文件失败: %w", err)
	}
	content := string(data)

	if raw := cmd.String("data"); raw != "" {
		var bound any
		if err := json.Unmarshal([]byte(raw), &bound); err != nil {
			return "", fmt.Errorf("解析 data JSON 失败: %w", err)
		}
		content = binding.Interpolate(content, bound)
	}
	return content, nil
}

// paginate 串联媒体接入、标记整理与分页，是 render 与 pages 的公共主干。
func paginate(env *appEnv, content string, imagePaths []string) (*layout.Result, []media.Asset, error) {
	assets, err := media.Load(imagePaths, env.log)
	if err != nil {
		return nil, nil, err
	}

	content, assets = segment.Renumber(content, assets)
	cons := env.cfg.Constraints()
	lang := language.Make(env.cfg.Card.Language)

	res := layout.Paginate(content, len(assets), media.Dims(assets), cons, lang)
	env.log.Info("分页完成",
		zap.Int("pages", len(res.Pages)),
		zap.Int("images", len(assets)))
	return res, assets, nil
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	env := envFrom(ctx)
	content, err := loadContent(cmd)
	if err != nil {
		return err
	}
	res, assets, err := paginate(env, content, cmd.StringSlice("image"))
	if err != nil {
		return err
	}

	if debugPath := cmd.String("debug-json"); debugPath != "" {
		if err := layout.WriteDebugJSON(res, debugPath); err != nil {
			return fmt.Errorf("写入调试 JSON 失败: %w", err)
		}
	}

	card := env.cfg.Card
	r := canvasrenderer.New(canvasrenderer.Options{
		Font:        canvasrenderer.Resource{Path: card.Font},
		Author:      card.Author,
		Background:  card.Background,
		TextColor:   card.TextColor,
		AccentColor: card.AccentColor,
		Scale:       card.Scale,
	}, env.log)

	pages, renderErr := r.Render(res, assets)

	outDir := cmd.String("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return multierr.Append(renderErr, fmt.Errorf("创建输出目录失败: %w", err))
	}
	for i, data := range pages {
		path := filepath.Join(outDir, fmt.Sprintf("card-%02d.png", i+1))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return multierr.Append(renderErr, fmt.Errorf("写入 %s 失败: %w", path, err))
		}
		env.log.Info("已输出卡片", zap.String("path", path))
	}
	return renderErr
}

func runPages(ctx context.Context, cmd *cli.Command) error {
	env := envFrom(ctx)
	content, err := loadContent(cmd)
	if err != nil {
		return err
	}
	res, _, err := paginate(env, content, cmd.StringSlice("image"))
	if err != nil {
		return err
	}

	out := cmd.String("out")
	if out == "-" || out == "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	return layout.WriteDebugJSON(res, out)
}

func runTidy(ctx context.Context, cmd *cli.Command) error {
	env := envFrom(ctx)
	path := cmd.Args().Get(0)
	if path == "" {
		return fmt.Errorf("缺少内容文件参数")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取内容文件失败: %w", err)
	}

	names := cmd.StringSlice("image")
	cleaned, kept := segment.Renumber(string(data), names)
	fmt.Print(cleaned)
	if !strings.HasSuffix(cleaned, "\n") {
		fmt.Println()
	}
	env.log.Info("标记整理完成",
		zap.Int("before", len(names)),
		zap.Int("after", len(kept)),
		zap.Strings("kept", kept))
	return nil
}

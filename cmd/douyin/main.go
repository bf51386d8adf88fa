package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	douyin "github.com/RavensCloud/douyin-gofun"
)

func main() {
	mediaURL := flag.String("url", "", "Douyin video/note/share URL to extract")
	userURL := flag.String("user", "", "Douyin user profile URL to list works from")
	max := flag.Int("max", 0, "Max works to fetch (0 = all, used with --user)")
	cookie := flag.String("cookie", "", "Cookie string, cookie file, or JSON cookie file (from --login)")
	login := flag.Bool("login", false, "Open a browser window for QR-code login, save cookies, then exit")
	saveCookies := flag.String("save-cookies", "douyin_cookies.json", "Path to save cookies after --login")
	proxyURL := flag.String("proxy", "", "Proxy URL (http/https/socks5)")
	jsonOut := flag.Bool("json", false, "Output only the JSON envelope")
	flag.Parse()

	if *mediaURL == "" && *userURL == "" && !*login {
		fmt.Fprintln(os.Stderr, "usage: douyin --url <content_url> | --user <profile_url> [--max N] [--cookie ...] | --login")
		os.Exit(1)
	}

	d := douyin.New()
	if *login {
		d = d.WithHeadful()
	}
	defer d.Close()

	if *proxyURL != "" {
		if err := d.SetProxy(*proxyURL); err != nil {
			log.Fatalf("set proxy: %v", err)
		}
	}

	ctx := context.Background()

	// Login mode: QR scan in a visible window, then export cookies.
	if *login {
		fmt.Println("A browser window will open. Scan the QR code with the Douyin app.")
		fmt.Println("Press Enter here once you are logged in.")
		cookies, err := d.InteractiveLogin(func() {
			bufio.NewReader(os.Stdin).ReadString('\n')
		})
		if err != nil {
			log.Fatalf("login: %v", err)
		}
		if missing := douyin.MissingAuthCookies(cookies); len(missing) > 0 {
			fmt.Printf("Warning: auth cookies missing: %s (login may have failed)\n", strings.Join(missing, ", "))
		}
		if err := douyin.SaveCookies(*saveCookies, cookies); err != nil {
			log.Fatalf("save cookies: %v", err)
		}
		fmt.Printf("Saved %d cookies to %s\n", len(cookies), *saveCookies)
		fmt.Printf("Reuse with: --cookie %s\n", *saveCookies)
		return
	}

	if *mediaURL != "" {
		result, err := d.GetMedia(ctx, *mediaURL)
		if err != nil {
			log.Fatalf("extract: %v", err)
		}
		if *jsonOut {
			printEnvelope(result)
			return
		}
		printMedia(result)
		printEnvelope(result)
		return
	}

	result, err := d.GetUserWorks(ctx, *userURL, *max, *cookie)
	if err != nil {
		log.Fatalf("user works: %v", err)
	}
	if *jsonOut {
		printEnvelope(result)
		return
	}
	printWorks(result)
	printEnvelope(result)
}

func printEnvelope(data any) {
	out, err := json.MarshalIndent(map[string]any{
		"code":    0,
		"message": "success",
		"data":    data,
	}, "", "  ")
	if err != nil {
		log.Fatalf("marshal result: %v", err)
	}
	fmt.Println(string(out))
}

func printMedia(r *douyin.ExtractionResult) {
	fmt.Printf("Title:  %s\n", r.Title)
	fmt.Printf("Author: %s\n", r.Author)
	fmt.Printf("Type:   %s\n", r.Type)
	fmt.Printf("Cover:  %s\n", r.Cover)
	fmt.Printf("Items (%d):\n", len(r.Items))
	for i, item := range r.Items {
		switch item.Type {
		case douyin.MediaVideo:
			fmt.Printf("  %d. [video]  %s\n", i+1, item.VideoURL)
		case douyin.MediaImage:
			fmt.Printf("  %d. [image]  %s\n", i+1, item.ImageURL)
		case douyin.MediaAnimatedImage:
			fmt.Printf("  %d. [animated]\n     image: %s\n     video: %s\n", i+1, item.ImageURL, item.VideoURL)
		}
	}
	fmt.Println()
}

func printWorks(r *douyin.UserWorksResult) {
	if r.User.Nickname != "" {
		fmt.Printf("User:    %s\n", r.User.Nickname)
	}
	if r.User.SecUID != "" {
		fmt.Printf("sec_uid: %s\n", r.User.SecUID)
	}
	videoCount, noteCount := 0, 0
	for _, w := range r.Works {
		if w.Type == douyin.KindVideo {
			videoCount++
		} else {
			noteCount++
		}
	}
	fmt.Printf("Fetched: %d works (%d videos, %d notes)\n", r.WorksCount, videoCount, noteCount)
	for i, w := range r.Works {
		tag := "[video]"
		if w.Type == douyin.KindNote {
			tag = "[note] "
		}
		pinned := ""
		if w.IsTop {
			pinned = " (pinned)"
		}
		ts := ""
		if w.CreateTime > 0 {
			ts = " " + time.Unix(w.CreateTime, 0).Format("2006-01-02 15:04")
		}
		fmt.Printf("%4d. %s%s%s\n", i+1, tag, pinned, ts)
		if w.Desc != "" {
			desc := w.Desc
			if r := []rune(desc); len(r) > 70 {
				desc = string(r[:70]) + "..."
			}
			fmt.Printf("      %s\n", desc)
		}
		fmt.Printf("      %s\n", w.ShareURL)
	}
	fmt.Println()
}

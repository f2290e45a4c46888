package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", s)
	}
	return id, nil
}

// List loads the file collection and prints it, newest first. An optional
// first argument selects another user's collection; that view is reserved
// for administrators.
func (a *App) List(ctx context.Context, args []string) error {
	var ownerID *int64
	if len(args) > 0 {
		if !a.isAdmin() {
			printlnFn("Administrator access required to view other users' files")
			return nil
		}
		id, err := parseID(args[0])
		if err != nil {
			printlnFn(err.Error())
			return err
		}
		ownerID = &id
	}

	if err := a.store.Load(ctx, ownerID); err != nil {
		printlnFn(err.Error())
		return err
	}

	snap := a.store.Snapshot()
	if len(snap.Items) == 0 {
		printlnFn("No files")
		return nil
	}
	for _, f := range snap.Items {
		line := fmt.Sprintf("%6d  %-40s %10d  %s", f.ID, f.OriginalName, f.SizeBytes, f.UploadedAt.Format(time.RFC3339))
		if f.Comment != "" {
			line += "  # " + f.Comment
		}
		printlnFn(line)
	}
	return nil
}

// Upload sends a local file to the server. The first argument is the path;
// any remaining arguments become the comment.
func (a *App) Upload(ctx context.Context, args []string) error {
	path := args[0]
	comment := strings.Join(args[1:], " ")

	f, err := os.Open(path)
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	defer f.Close()

	res, err := a.store.Upload(ctx, filepath.Base(path), f, comment)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Uploaded %s (id %d, %d bytes)", res.OriginalName, res.ID, res.SizeBytes))
	return nil
}

// Download saves a file into the destination directory (default: current).
// The file is written under its server-side name; a partial download never
// leaves a truncated file behind.
func (a *App) Download(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	dir := "."
	if len(args) > 1 {
		dir = args[1]
	}

	tmp, err := os.CreateTemp(dir, ".cloudbox-*")
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	name, err := a.store.Download(ctx, id, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		printlnFn(err.Error())
		return err
	}

	target := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		printlnFn(err.Error())
		return err
	}

	printlnFn("Saved", target)
	return nil
}

// Rename changes a file's display name. The new name comes from the
// remaining arguments, or from an interactive prompt when omitted.
func (a *App) Rename(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	newName := strings.Join(args[1:], " ")
	if newName == "" {
		newName, err = getSimpleText(a.reader, "Enter new name", os.Stdout)
		if err != nil {
			return err
		}
	}

	if err := a.store.Rename(ctx, id, newName); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Renamed")
	return nil
}

// Comment prompts for a (possibly multi-line) comment and attaches it to
// the file. An empty comment clears the existing one.
func (a *App) Comment(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	comment, err := getMultiline(a.reader, "Enter comment (empty to clear)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.store.SetComment(ctx, id, comment); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Comment updated")
	return nil
}

// Share prints the public share URL of a file from the loaded collection.
func (a *App) Share(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	url, ok := a.store.ShareURL(id)
	if !ok {
		printlnFn("Unknown file id; run 'list' first")
		return nil
	}
	printlnFn(url)
	return nil
}

// Remove deletes a file on the server and drops it from the local view.
func (a *App) Remove(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if err := a.store.Delete(ctx, id); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Deleted")
	return nil
}

// Fetch downloads a publicly shared file by its share link. It requires no
// session and therefore talks to the API client directly.
func (a *App) Fetch(ctx context.Context, args []string) error {
	link := args[0]
	dir := "."
	if len(args) > 1 {
		dir = args[1]
	}

	rc, name, err := a.client.DownloadShared(ctx, link)
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	defer rc.Close()

	target := filepath.Join(dir, name)
	out, err := os.Create(target)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	_, err = io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(target)
		printlnFn(err.Error())
		return err
	}

	printlnFn("Saved", target)
	return nil
}

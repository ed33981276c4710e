// Package idiomclient is a Go client for the idiom community API together with
// optimistic state controllers for votes, comment threads and favourites.
package idiomclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AuthContext identifies the caller. It is passed in explicitly; the client never
// reads credentials from ambient state.
type AuthContext struct {
	UserID int
	Token  string
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	auth    AuthContext
	http    *http.Client
}

// New returns a client for the API mounted at baseURL (for example http://host/api).
func New(baseURL string, auth AuthContext) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Auth() AuthContext { return c.auth }

// VoteCounts is the server's canonical vote or reaction state of one entity.
type VoteCounts struct {
	Up   int64
	Down int64
	Mine string
}

type Author struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

type Reply struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	AuthorID  int       `json:"authorId"`
	Author    Author    `json:"author"`
	CommentID int       `json:"commentId"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int64     `json:"likes"`
	Dislikes  int64     `json:"dislikes"`
	UserVote  *string   `json:"userVote"`
}

type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	AuthorID  int       `json:"authorId"`
	Author    Author    `json:"author"`
	IdiomID   int       `json:"idiomId"`
	Replies   []Reply   `json:"replies"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int64     `json:"likes"`
	Dislikes  int64     `json:"dislikes"`
	UserVote  *string   `json:"userVote"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.auth.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &e)
		if e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

type reactionBody struct {
	Likes    int64   `json:"likes"`
	Dislikes int64   `json:"dislikes"`
	UserVote *string `json:"userVote"`
}

func (r reactionBody) counts() VoteCounts {
	v := VoteCounts{Up: r.Likes, Down: r.Dislikes}
	if r.UserVote != nil {
		v.Mine = *r.UserVote
	}
	return v
}

// VoteIdiom sends an up or down vote. The server toggles it off when repeated.
func (c *Client) VoteIdiom(ctx context.Context, idiomID int, voteType string) (VoteCounts, error) {
	var out struct {
		Data struct {
			Upvotes   int64   `json:"upvotes"`
			Downvotes int64   `json:"downvotes"`
			UserVote  *string `json:"userVote"`
		} `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/idiom/%d/vote", idiomID), map[string]string{"voteType": voteType}, &out)
	if err != nil {
		return VoteCounts{}, err
	}
	v := VoteCounts{Up: out.Data.Upvotes, Down: out.Data.Downvotes}
	if out.Data.UserVote != nil {
		v.Mine = *out.Data.UserVote
	}
	return v, nil
}

func (c *Client) VoteComment(ctx context.Context, commentID int, kind string) (VoteCounts, error) {
	var out reactionBody
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/comment/%d/vote", commentID), map[string]string{"voteType": kind}, &out)
	return out.counts(), err
}

func (c *Client) VoteReply(ctx context.Context, replyID int, kind string) (VoteCounts, error) {
	var out struct {
		Data reactionBody `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/reply/%d/vote", replyID), map[string]string{"voteType": kind}, &out)
	return out.Data.counts(), err
}

func (c *Client) ListComments(ctx context.Context, idiomID int) ([]Comment, error) {
	var out []Comment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/comment/%d", idiomID), nil, &out)
	return out, err
}

func (c *Client) CreateComment(ctx context.Context, idiomID int, content string) (*Comment, error) {
	var out Comment
	err := c.do(ctx, http.MethodPost, "/comment", map[string]any{"idiomId": idiomID, "content": content}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateReply(ctx context.Context, commentID int, content string) (*Reply, error) {
	var out Reply
	err := c.do(ctx, http.MethodPost, "/reply", map[string]any{"commentId": commentID, "content": content}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddFavourite(ctx context.Context, idiomID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/user/favourites/%d", idiomID), nil, nil)
}

func (c *Client) RemoveFavourite(ctx context.Context, idiomID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/user/favourites/%d", idiomID), nil, nil)
}

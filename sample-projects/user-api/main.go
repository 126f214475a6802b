package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	ocsigenserver "github.com/huangered/ocsigenserver"
	p "github.com/huangered/ocsigenserver/param"
	"github.com/huangered/ocsigenserver/service"
)

// User represents a user in our system
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Age    int    `json:"age"`
	Active bool   `json:"active"`
}

// UserStore is a simple in-memory store
type UserStore struct {
	mu     sync.RWMutex
	users  map[int]User
	nextID int
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:  make(map[int]User),
		nextID: 1,
	}
}

func (s *UserStore) Create(user User) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user

	return user
}

func (s *UserStore) All() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (s *UserStore) Get(id int) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	return user, exists
}

func (s *UserStore) Update(id int, user User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[id]; !exists {
		return false
	}

	user.ID = id
	s.users[id] = user
	return true
}

func (s *UserStore) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[id]; !exists {
		return false
	}

	delete(s.users, id)
	return true
}

var errUserNotFound = errors.New("user not found")

// Parameter descriptions. Every endpoint is a service on the /users path;
// among services sharing the path, the one whose parameters accept the
// request wins.

func listingParams() ocsigenserver.Param[ocsigenserver.Pair[int, *string]] {
	return p.Prod(
		p.Default(p.Int("page"), 1),
		p.Opt(p.String("q")),
	)
}

func createParams() ocsigenserver.Param[ocsigenserver.Pair[string, ocsigenserver.Pair[string, ocsigenserver.Pair[int, bool]]]] {
	return p.Prod4(
		p.String("name"),
		p.String("email"),
		p.Default(p.Int("age"), 18),
		p.Default(p.Bool("active"), true),
	)
}

func updateParams() ocsigenserver.Param[ocsigenserver.Pair[*string, ocsigenserver.Pair[*string, ocsigenserver.Pair[*int, *bool]]]] {
	return p.Prod4(
		p.Opt(p.String("name")),
		p.Opt(p.String("email")),
		p.Opt(p.Int("age")),
		p.Opt(p.Bool("active")),
	)
}

const pageSize = 10

func buildTable(store *UserStore) *service.Table {
	t := service.NewTable(ocsigenserver.DecodeOpt{
		Strictness: ocsigenserver.Strictness{OnDuplicateKey: ocsigenserver.Error},
	})

	// GET /users?page=2&q=taro
	listing, err := service.NewTyped("users", "/users", listingParams(),
		func(_ context.Context, q ocsigenserver.Pair[int, *string]) (any, error) {
			users := store.All()
			if q.Second != nil {
				needle := strings.ToLower(*q.Second)
				filtered := make([]User, 0, len(users))
				for _, u := range users {
					if strings.Contains(strings.ToLower(u.Name), needle) ||
						strings.Contains(strings.ToLower(u.Email), needle) {
						filtered = append(filtered, u)
					}
				}
				users = filtered
			}
			total := len(users)
			start := (q.First - 1) * pageSize
			if start < 0 || start > total {
				start = total
			}
			end := start + pageSize
			if end > total {
				end = total
			}
			return map[string]any{
				"users": users[start:end],
				"count": total,
				"page":  q.First,
			}, nil
		})
	if err != nil {
		log.Fatal(err)
	}
	t.MustRegister(listing)

	// GET /users/1
	byID, err := service.NewTyped("user", "/users", p.Suffix(p.Int("id")),
		func(_ context.Context, id int) (any, error) {
			user, exists := store.Get(id)
			if !exists {
				return nil, fmt.Errorf("%w: %d", errUserNotFound, id)
			}
			return user, nil
		})
	if err != nil {
		log.Fatal(err)
	}
	t.MustRegister(byID)

	// POST /users with name, email and the optional defaults
	create, err := service.NewPostTyped("create-user", "/users", p.Unit(), createParams(),
		func(_ context.Context, _ ocsigenserver.Unit, body ocsigenserver.Pair[string, ocsigenserver.Pair[string, ocsigenserver.Pair[int, bool]]]) (any, error) {
			user := store.Create(User{
				Name:   body.First,
				Email:  body.Second.First,
				Age:    body.Second.Second.First,
				Active: body.Second.Second.Second,
			})
			return user, nil
		})
	if err != nil {
		log.Fatal(err)
	}
	t.MustRegister(create)

	// POST /users/1 with delete=true. Registered before the update service:
	// a body carrying delete=true is a deletion even if it also carries
	// update fields.
	del, err := service.NewPostTyped("delete-user", "/users", p.Suffix(p.Int("id")), p.Bool("delete"),
		func(_ context.Context, id int, confirmed bool) (any, error) {
			if !confirmed {
				return map[string]any{"deleted": false, "id": id}, nil
			}
			if !store.Delete(id) {
				return nil, fmt.Errorf("%w: %d", errUserNotFound, id)
			}
			return map[string]any{"deleted": true, "id": id}, nil
		})
	if err != nil {
		log.Fatal(err)
	}
	t.MustRegister(del)

	// POST /users/1 with any subset of the user fields
	update, err := service.NewPostTyped("update-user", "/users", p.Suffix(p.Int("id")), updateParams(),
		func(_ context.Context, id int, body ocsigenserver.Pair[*string, ocsigenserver.Pair[*string, ocsigenserver.Pair[*int, *bool]]]) (any, error) {
			user, exists := store.Get(id)
			if !exists {
				return nil, fmt.Errorf("%w: %d", errUserNotFound, id)
			}

			var updated []string
			if body.First != nil {
				user.Name = *body.First
				updated = append(updated, "name")
			}
			if body.Second.First != nil {
				user.Email = *body.Second.First
				updated = append(updated, "email")
			}
			if body.Second.Second.First != nil {
				user.Age = *body.Second.Second.First
				updated = append(updated, "age")
			}
			if body.Second.Second.Second != nil {
				user.Active = *body.Second.Second.Second
				updated = append(updated, "active")
			}
			store.Update(id, user)

			return map[string]any{
				"user":           user,
				"updated_fields": updated,
			}, nil
		})
	if err != nil {
		log.Fatal(err)
	}
	t.MustRegister(update)

	return t
}

// apiHandler dispatches through the table and maps the error kinds onto
// HTTP statuses: decode issues answer 400 with the issue details, unknown
// users 404, unmatched paths 404, the rest 500.
func apiHandler(t *service.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := t.DispatchRequest(r)
		w.Header().Set("Content-Type", "application/json")

		if err == nil {
			json.NewEncoder(w).Encode(out)
			return
		}

		if errors.Is(err, errUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		var nf *service.NotFoundError
		if errors.As(err, &nf) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": nf.Error()})
			return
		}

		if issues, ok := ocsigenserver.AsIssues(err); ok {
			w.WriteHeader(http.StatusBadRequest)

			details := make([]map[string]any, len(issues))
			for i, issue := range issues {
				details[i] = map[string]any{
					"name":    issue.Name,
					"code":    issue.Code,
					"message": issue.Message,
					"raw":     issue.Raw,
				}
			}
			json.NewEncoder(w).Encode(map[string]any{
				"error":   "Validation failed",
				"details": details,
			})
			return
		}

		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
	}
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	service.SetLogger(logger)

	store := NewUserStore()
	table := buildTable(store)

	// Add some initial data
	store.Create(User{Name: "Taro", Email: "taro@example.com", Age: 30, Active: true})
	store.Create(User{Name: "Hanako", Email: "hanako@example.com", Age: 25, Active: true})

	api := apiHandler(table)
	http.Handle("/users", api)
	http.Handle("/users/", api)

	// Health check
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Root handler with usage instructions
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		// Links come out of the service descriptions themselves.
		userSvc, _ := table.Lookup("user")
		exampleLink, _ := userSvc.URL(1)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": "ocsigenserver User API Sample",
			"endpoints": map[string]string{
				"GET /users":              "List users (page, q)",
				"GET /users/{id}":         "Get user by ID",
				"POST /users":             "Create a user (name, email, age, active)",
				"POST /users/{id}":        "Partially update a user (any subset of fields)",
				"POST /users/{id} delete": "Delete a user (delete=true)",
				"GET /health":             "Health check",
			},
			"examples": map[string]any{
				"get_user": map[string]any{
					"method": "GET",
					"url":    exampleLink,
				},
				"create_user": map[string]any{
					"method": "POST",
					"url":    "/users",
					"body":   "name=Taro&email=taro%40example.com&age=30",
					"note":   "Form-encoded or a JSON object; age and active fall back to their defaults",
				},
				"partial_update": map[string]any{
					"method": "POST",
					"url":    "/users/1",
					"body":   "name=Jiro",
					"note":   "Only updates the 'name' field, other fields remain unchanged",
				},
			},
		})
	})

	log.Println("🚀 ocsigenserver User API server starting on :8080")
	log.Println("📖 Visit http://localhost:8080 for usage instructions")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

package graph

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/moviegraph/moviegraph/internal/queue"
	"github.com/moviegraph/moviegraph/internal/repository"
)

// defaultPageLimit is the page size used when the caller supplies none.
const defaultPageLimit = 2000

// View structs shape repository rows for GraphQL serialization: nullable
// columns become pointers and field names match the schema via json tags.

type movieView struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	ReleaseYear int      `json:"releaseYear"`
	Description *string  `json:"description"`
	PosterPath  *string  `json:"posterPath"`
	Genres      []string `json:"genres"`
}

type actorView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Gender      string  `json:"gender"`
	ProfilePath *string `json:"profilePath"`
}

type roleView struct {
	MovieID       uint64 `json:"movieId"`
	CharacterName string `json:"characterName"`
}

type movieListView struct {
	Movies     []movieView `json:"movies"`
	TotalCount int         `json:"totalCount"`
}

type actorListView struct {
	Actors     []actorView `json:"actors"`
	TotalCount int         `json:"totalCount"`
}

type ratingView struct {
	Average    float64   `json:"average"`
	AllRatings []float64 `json:"allRatings"`
}

func movieToView(m repository.Movie) movieView {
	v := movieView{ID: m.ID, Title: m.Title, ReleaseYear: m.ReleaseYear, Genres: m.Genres}
	if m.Description.Valid {
		s := m.Description.String
		v.Description = &s
	}
	if m.PosterPath.Valid {
		s := m.PosterPath.String
		v.PosterPath = &s
	}
	return v
}

func actorToView(a repository.Actor) actorView {
	v := actorView{ID: a.ID, Name: a.Name, Gender: a.Gender}
	if a.ProfilePath.Valid {
		s := a.ProfilePath.String
		v.ProfilePath = &s
	}
	return v
}

// pageArgs reads page/limit arguments and converts them to a row offset.
// Page 1 starts at offset 0.
func pageArgs(p graphql.ResolveParams) (limit, offset int) {
	page, _ := p.Args["page"].(int)
	limit, _ = p.Args["limit"].(int)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

func (r *Resolver) resolveMovies(p graphql.ResolveParams) (interface{}, error) {
	limit, offset := pageArgs(p)
	movies, err := r.Movies.List(p.Context, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := r.Movies.Count(p.Context)
	if err != nil {
		return nil, err
	}
	list := movieListView{TotalCount: total, Movies: make([]movieView, 0, len(movies))}
	for _, m := range movies {
		list.Movies = append(list.Movies, movieToView(m))
	}
	return list, nil
}

func (r *Resolver) resolveActors(p graphql.ResolveParams) (interface{}, error) {
	limit, offset := pageArgs(p)
	actors, err := r.Actors.List(p.Context, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := r.Actors.Count(p.Context)
	if err != nil {
		return nil, err
	}
	list := actorListView{TotalCount: total, Actors: make([]actorView, 0, len(actors))}
	for _, a := range actors {
		list.Actors = append(list.Actors, actorToView(a))
	}
	return list, nil
}

func (r *Resolver) resolveGenres(p graphql.ResolveParams) (interface{}, error) {
	return r.Movies.AllGenres(p.Context)
}

func (r *Resolver) resolveMovie(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(int)
	m, err := r.Movies.GetByID(p.Context, uint64(id))
	if err != nil {
		return nil, err
	}
	return movieToView(m), nil
}

func (r *Resolver) resolveActor(p graphql.ResolveParams) (interface{}, error) {
	name, _ := p.Args["name"].(string)
	a, err := r.Actors.GetByName(p.Context, name)
	if err != nil {
		return nil, err
	}
	return actorToView(a), nil
}

// resolveActorRoles lazily loads the roles field of an Actor.
func (r *Resolver) resolveActorRoles(p graphql.ResolveParams) (interface{}, error) {
	a, ok := p.Source.(actorView)
	if !ok {
		return nil, nil
	}
	roles, err := r.Actors.Roles(p.Context, a.ID)
	if err != nil {
		return nil, err
	}
	views := make([]roleView, 0, len(roles))
	for _, role := range roles {
		views = append(views, roleView{MovieID: role.MovieID, CharacterName: role.CharacterName})
	}
	return views, nil
}

func (r *Resolver) resolveAddMovie(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.Auth.Authenticate(p.Context, TokenFrom(p.Context))
	if err != nil {
		return nil, err
	}
	title, _ := p.Args["title"].(string)
	releaseYear, _ := p.Args["releaseYear"].(int)
	genre, _ := p.Args["genre"].(string)

	id, err := r.Movies.Add(p.Context, title, releaseYear, genre)
	if err != nil {
		return nil, err
	}
	if r.Events != nil {
		// Best effort; the publisher logs its own failures.
		_ = r.Events.MovieAdded(p.Context, queue.MovieAddedEvent{
			MovieID:     id,
			Title:       title,
			ReleaseYear: releaseYear,
			Genre:       genre,
			AddedBy:     user.Username,
			AddedAt:     time.Now().UTC().Format(time.RFC3339),
		})
	}
	return int(id), nil
}

func (r *Resolver) resolveUpdateMovie(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.Auth.Authenticate(p.Context, TokenFrom(p.Context)); err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(int)
	up := repository.MovieUpdate{ID: uint64(id)}
	if v, ok := p.Args["title"].(string); ok {
		up.Title = &v
	}
	if v, ok := p.Args["description"].(string); ok {
		up.Description = &v
	}
	if v, ok := p.Args["releaseYear"].(int); ok {
		up.ReleaseYear = &v
	}
	if v, ok := p.Args["genre"].(string); ok {
		up.Genre = &v
	}
	if err := r.Movies.Update(p.Context, up); err != nil {
		return nil, err
	}
	return "Movie successfully updated", nil
}

func (r *Resolver) resolveDeleteMovie(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.Auth.Authenticate(p.Context, TokenFrom(p.Context)); err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(int)
	if err := r.Movies.Delete(p.Context, uint64(id)); err != nil {
		return nil, err
	}
	return "Movie successfully deleted", nil
}

func (r *Resolver) resolveRatings(p graphql.ResolveParams) (interface{}, error) {
	movieID, _ := p.Args["movieId"].(int)
	summary, err := r.Ratings.ForMovie(p.Context, uint64(movieID))
	if err != nil {
		return nil, err
	}
	return ratingView{Average: summary.Average, AllRatings: summary.AllRatings}, nil
}

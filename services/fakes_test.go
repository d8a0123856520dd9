package services

import (
	"context"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection is an in-memory Collection. Every update applies under one
// lock, mirroring Mongo's per-document atomicity for $inc and friends.
type fakeCollection struct {
	mu          sync.Mutex
	docs        []bson.M
	updateCalls int
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{}
}

func toDoc(v interface{}) bson.M {
	if m, ok := v.(bson.M); ok {
		return m
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	return m
}

func (f *fakeCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := toDoc(document)
	f.docs = append(f.docs, doc)
	return &mongo.InsertOneResult{InsertedID: doc["_id"]}, nil
}

func (f *fakeCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	for _, doc := range f.docs {
		if matches(doc, filter) {
			applyUpdate(doc, update)
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (f *fakeCollection) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	var matched int64
	for _, doc := range f.docs {
		if matches(doc, filter) {
			applyUpdate(doc, update)
			matched++
		}
	}
	return &mongo.UpdateResult{MatchedCount: matched, ModifiedCount: matched}, nil
}

func (f *fakeCollection) UpdateByID(ctx context.Context, id interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return f.UpdateOne(ctx, bson.M{"_id": id}, update)
}

func (f *fakeCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doc := range f.docs {
		if matches(doc, filter) {
			return mongo.NewSingleResultFromDocument(copyDoc(doc), nil, nil)
		}
	}
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func (f *fakeCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := []bson.M{}
	for _, doc := range f.docs {
		if matches(doc, filter) {
			matched = append(matched, copyDoc(doc))
		}
	}

	var sortSpec bson.D
	var skip, limit int64 = 0, -1
	for _, o := range opts {
		if o == nil {
			continue
		}
		if o.Sort != nil {
			sortSpec = o.Sort.(bson.D)
		}
		if o.Skip != nil {
			skip = *o.Skip
		}
		if o.Limit != nil {
			limit = *o.Limit
		}
	}

	if len(sortSpec) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, key := range sortSpec {
				cmp := compareValues(lookup(matched[i], key.Key), lookup(matched[j], key.Key))
				if cmp == 0 {
					continue
				}
				if order, _ := toInt64(key.Value); order < 0 {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}

	if skip > int64(len(matched)) {
		skip = int64(len(matched))
	}
	matched = matched[skip:]
	if limit >= 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}

	out := make([]interface{}, len(matched))
	for i, doc := range matched {
		out[i] = doc
	}
	return mongo.NewCursorFromDocuments(out, nil, nil)
}

func (f *fakeCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, doc := range f.docs {
		if matches(doc, filter) {
			count++
		}
	}
	return count, nil
}

func (f *fakeCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, doc := range f.docs {
		if matches(doc, filter) {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (f *fakeCollection) Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[interface{}]bool{}
	values := []interface{}{}
	for _, doc := range f.docs {
		if !matches(doc, filter) {
			continue
		}
		v := lookup(doc, fieldName)
		elems := []interface{}{v}
		if arr, ok := v.(primitive.A); ok {
			elems = arr
		}
		for _, el := range elems {
			if el == nil || seen[el] {
				continue
			}
			seen[el] = true
			values = append(values, el)
		}
	}
	return values, nil
}

// findDoc returns the live document with the given id, for assertions.
func (f *fakeCollection) findDoc(id interface{}) bson.M {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doc := range f.docs {
		if valuesEqual(doc["_id"], id) {
			return doc
		}
	}
	return nil
}

func (f *fakeCollection) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

func copyDoc(doc bson.M) bson.M {
	out := bson.M{}
	for k, v := range doc {
		if nested, ok := v.(bson.M); ok {
			out[k] = copyDoc(nested)
			continue
		}
		if arr, ok := v.(primitive.A); ok {
			out[k] = append(primitive.A{}, arr...)
			continue
		}
		out[k] = v
	}
	return out
}

func lookup(doc bson.M, path string) interface{} {
	parts := strings.Split(path, ".")
	var current interface{} = doc
	for _, part := range parts {
		m, ok := current.(bson.M)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

func setPath(doc bson.M, path string, value interface{}) {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(bson.M)
		if !ok {
			next = bson.M{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func applyUpdate(doc bson.M, update interface{}) {
	for op, args := range toDoc(update) {
		fields, ok := args.(bson.M)
		if !ok {
			continue
		}
		for key, value := range fields {
			switch op {
			case "$set":
				setPath(doc, key, value)
			case "$inc":
				current, _ := toInt64(lookup(doc, key))
				delta, _ := toInt64(value)
				setPath(doc, key, current+delta)
			case "$push":
				arr, _ := lookup(doc, key).(primitive.A)
				setPath(doc, key, append(arr, value))
			case "$pull":
				arr, _ := lookup(doc, key).(primitive.A)
				kept := primitive.A{}
				for _, el := range arr {
					if !valuesEqual(el, value) {
						kept = append(kept, el)
					}
				}
				setPath(doc, key, kept)
			case "$addToSet":
				arr, _ := lookup(doc, key).(primitive.A)
				present := false
				for _, el := range arr {
					if valuesEqual(el, value) {
						present = true
						break
					}
				}
				if !present {
					setPath(doc, key, append(arr, value))
				}
			}
		}
	}
}

func matches(doc bson.M, filter interface{}) bool {
	for key, want := range toDoc(filter) {
		if key == "$or" {
			clauses, ok := want.(bson.A)
			if !ok {
				return false
			}
			anyMatch := false
			for _, clause := range clauses {
				if matches(doc, clause) {
					anyMatch = true
					break
				}
			}
			if !anyMatch {
				return false
			}
			continue
		}
		if !valueMatches(lookup(doc, key), want) {
			return false
		}
	}
	return true
}

func valueMatches(got, want interface{}) bool {
	switch w := want.(type) {
	case nil:
		return got == nil
	case bson.M:
		for op, arg := range w {
			switch op {
			case "$in":
				list := reflect.ValueOf(arg)
				found := false
				for i := 0; i < list.Len(); i++ {
					if valueMatches(got, list.Index(i).Interface()) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			case "$ne":
				if valuesEqual(got, arg) {
					return false
				}
			default:
				return false
			}
		}
		return true
	case primitive.Regex:
		pattern := w.Pattern
		if strings.Contains(w.Options, "i") {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		if s, ok := got.(string); ok {
			return re.MatchString(s)
		}
		if arr, ok := got.(primitive.A); ok {
			for _, el := range arr {
				if s, ok := el.(string); ok && re.MatchString(s) {
					return true
				}
			}
		}
		return false
	default:
		if valuesEqual(got, want) {
			return true
		}
		if arr, ok := got.(primitive.A); ok {
			for _, el := range arr {
				if valuesEqual(el, want) {
					return true
				}
			}
		}
		return false
	}
}

func valuesEqual(a, b interface{}) bool {
	if na, ok := toInt64(a); ok {
		if nb, ok := toInt64(b); ok {
			return na == nb
		}
	}
	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			return ta.Equal(tb)
		}
	}
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b interface{}) int {
	if na, ok := toInt64(a); ok {
		if nb, ok := toInt64(b); ok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			}
			return 0
		}
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		return strings.Compare(sa, sb)
	}
	if a == nil && b != nil {
		return -1
	}
	if a != nil && b == nil {
		return 1
	}
	return 0
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}

// Command swaggergen generates OpenAPI 3.0 specification files (JSON and YAML)
// for the course catalog API and writes them to the api/ directory.
//
// Usage:
//
//	go run ./tools/swaggergen
//
// # For Contributors
//
// When you modify the API (add/change endpoints, request/response schemas, etc.),
// update this file to keep the swagger spec in sync:
//
//  1. Endpoints: Edit buildPaths() to add/modify path items and operations
//  2. Schemas: Edit buildSchemas() to add/modify request/response types
//  3. Regenerate: Run `go run ./tools/swaggergen` from the project root
//  4. Verify: Check api/swagger.yaml and api/swagger.json for correctness
//
// Helper functions:
//   - errResp(): standard error response (reuse for error responses)
//   - jsonResp() / jsonBody(): response and request bodies referencing a schema
//   - idParam(): a numeric path parameter such as {userID} or {courseID}
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Lightweight OpenAPI 3.0 types
// ---------------------------------------------------------------------------

type OpenAPI struct {
	OpenAPI    string               `json:"openapi"              yaml:"openapi"`
	Info       Info                 `json:"info"                 yaml:"info"`
	Paths      map[string]*PathItem `json:"paths"                yaml:"paths"`
	Components Components           `json:"components"           yaml:"components"`
}

type Info struct {
	Title       string `json:"title"       yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version"     yaml:"version"`
}

type PathItem struct {
	Get  *Operation `json:"get,omitempty"  yaml:"get,omitempty"`
	Post *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Put  *Operation `json:"put,omitempty"  yaml:"put,omitempty"`
}

type Operation struct {
	Tags        []string              `json:"tags"                  yaml:"tags"`
	Summary     string                `json:"summary"               yaml:"summary"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                `json:"operationId"           yaml:"operationId"`
	Security    []map[string][]string `json:"security,omitempty"    yaml:"security,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty"  yaml:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response   `json:"responses"             yaml:"responses"`
}

type Parameter struct {
	Name        string `json:"name"        yaml:"name"`
	In          string `json:"in"          yaml:"in"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required"    yaml:"required"`
	Schema      Schema `json:"schema"      yaml:"schema"`
}

type RequestBody struct {
	Required    bool                 `json:"required"              yaml:"required"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Content     map[string]MediaType `json:"content"               yaml:"content"`
}

type MediaType struct {
	Schema Schema `json:"schema" yaml:"schema"`
}

type Response struct {
	Description string               `json:"description"       yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type Schema struct {
	Type        string            `json:"type,omitempty"        yaml:"type,omitempty"`
	Format      string            `json:"format,omitempty"      yaml:"format,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"  yaml:"properties,omitempty"`
	Items       *Schema           `json:"items,omitempty"       yaml:"items,omitempty"`
	Required    []string          `json:"required,omitempty"    yaml:"required,omitempty"`
	Enum        []string          `json:"enum,omitempty"        yaml:"enum,omitempty"`
	Ref         string            `json:"$ref,omitempty"        yaml:"$ref,omitempty"`
	Minimum     *float64          `json:"minimum,omitempty"     yaml:"minimum,omitempty"`
	Maximum     *float64          `json:"maximum,omitempty"     yaml:"maximum,omitempty"`
	MinLength   int               `json:"minLength,omitempty"   yaml:"minLength,omitempty"`
	MaxLength   int               `json:"maxLength,omitempty"   yaml:"maxLength,omitempty"`
	Nullable    bool              `json:"nullable,omitempty"    yaml:"nullable,omitempty"`
	Example     any               `json:"example,omitempty"     yaml:"example,omitempty"`
}

type Components struct {
	Schemas         map[string]Schema         `json:"schemas"         yaml:"schemas"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes" yaml:"securitySchemes"`
}

type SecurityScheme struct {
	Type         string `json:"type"         yaml:"type"`
	Scheme       string `json:"scheme"       yaml:"scheme"`
	BearerFormat string `json:"bearerFormat" yaml:"bearerFormat"`
	Description  string `json:"description"  yaml:"description"`
}

// ---------------------------------------------------------------------------
// Spec builder
// ---------------------------------------------------------------------------

func buildSpec() OpenAPI {
	return OpenAPI{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "Course Catalog API",
			Description: "Courses, interests and interest-based course recommendations.",
			Version:     "1.0.0",
		},
		Paths: buildPaths([]map[string][]string{{"BearerAuth": {}}}),
		Components: Components{
			Schemas:         buildSchemas(),
			SecuritySchemes: buildSecuritySchemes(),
		},
	}
}

func buildPaths(bearerAuth []map[string][]string) map[string]*PathItem {
	userID := idParam("userID", "Identifier of the user; must match the token subject")
	courseID := idParam("courseID", "Identifier of the course")

	return map[string]*PathItem{
		"/api/v1/register": {
			Post: &Operation{
				Tags:        []string{"Users"},
				Summary:     "Register a student account",
				OperationID: "register",
				RequestBody: jsonBody("RegisterRequest"),
				Responses: map[string]Response{
					"201": jsonResp("Account created", "RegisterResponse"),
					"400": errResp("Validation error"),
					"409": errResp("Username or email already taken"),
					"503": errResp("Storage temporarily unavailable"),
				},
			},
		},
		"/api/v1/login": {
			Post: &Operation{
				Tags:        []string{"Users"},
				Summary:     "Log in",
				Description: "Checks the credentials and returns a bearer token.",
				OperationID: "login",
				RequestBody: jsonBody("LoginRequest"),
				Responses: map[string]Response{
					"200": jsonResp("Logged in", "LoginResponse"),
					"400": errResp("Validation error"),
					"401": errResp("Invalid username or password"),
				},
			},
		},
		"/api/v1/users/{userID}/profile": {
			Get: &Operation{
				Tags:        []string{"Users"},
				Summary:     "Get the profile of the authenticated user",
				OperationID: "getProfile",
				Security:    bearerAuth,
				Parameters:  []Parameter{userID},
				Responses: map[string]Response{
					"200": jsonResp("The user profile", "User"),
					"401": errResp("Missing or invalid token"),
					"403": errResp("Token belongs to another user"),
					"404": errResp("User not found"),
				},
			},
			Put: &Operation{
				Tags:        []string{"Users"},
				Summary:     "Update the profile of the authenticated user",
				Description: "Text fields are trimmed; blank values clear them. Unsupported themes are ignored.",
				OperationID: "updateProfile",
				Security:    bearerAuth,
				Parameters:  []Parameter{userID},
				RequestBody: jsonBody("UpdateProfileRequest"),
				Responses: map[string]Response{
					"200": jsonResp("The updated profile", "User"),
					"400": errResp("Validation error"),
					"401": errResp("Missing or invalid token"),
					"403": errResp("Token belongs to another user"),
					"404": errResp("User not found"),
				},
			},
		},
		"/api/v1/interests": {
			Get: &Operation{
				Tags:        []string{"Interests"},
				Summary:     "List the interest catalog",
				Description: "All interests ordered by category, then name.",
				OperationID: "listInterests",
				Responses: map[string]Response{
					"200": jsonArrayResp("The interest catalog", "Interest"),
					"503": errResp("Storage temporarily unavailable"),
				},
			},
		},
		"/api/v1/users/{userID}/interests": {
			Get: &Operation{
				Tags:        []string{"Interests"},
				Summary:     "List the user's interests",
				OperationID: "getUserInterests",
				Security:    bearerAuth,
				Parameters:  []Parameter{userID},
				Responses: map[string]Response{
					"200": jsonArrayResp("The user's interests, ordered by category and name", "Interest"),
					"401": errResp("Missing or invalid token"),
					"403": errResp("Token belongs to another user"),
				},
			},
			Post: &Operation{
				Tags:        []string{"Interests"},
				Summary:     "Replace the user's interests",
				Description: "Atomically replaces the whole set. Duplicate ids are collapsed.",
				OperationID: "saveUserInterests",
				Security:    bearerAuth,
				Parameters:  []Parameter{userID},
				RequestBody: jsonBody("SaveInterestsRequest"),
				Responses:   replaceResponses("User not found"),
			},
		},
		"/api/v1/courses": {
			Get: &Operation{
				Tags:        []string{"Courses"},
				Summary:     "List courses",
				Description: "With a bearer token each course carries isForYou and the names of the matching interests.",
				OperationID: "listCourses",
				Security:    []map[string][]string{{}, {"BearerAuth": {}}},
				Responses: map[string]Response{
					"200": jsonArrayResp("Courses ordered by id", "EnrichedCourse"),
					"401": errResp("Invalid token"),
					"503": errResp("Storage temporarily unavailable"),
				},
			},
			Post: &Operation{
				Tags:        []string{"Courses"},
				Summary:     "Create a course",
				OperationID: "createCourse",
				Security:    bearerAuth,
				RequestBody: jsonBody("CreateCourseRequest"),
				Responses: map[string]Response{
					"201": jsonResp("Course created", "Course"),
					"400": errResp("Validation error"),
					"401": errResp("Missing or invalid token"),
					"422": errResp("One or more interestIds do not exist"),
				},
			},
		},
		"/api/v1/courses/{courseID}": {
			Get: &Operation{
				Tags:        []string{"Courses"},
				Summary:     "Get a course",
				OperationID: "getCourse",
				Parameters:  []Parameter{courseID},
				Responses: map[string]Response{
					"200": jsonResp("The course", "Course"),
					"400": errResp("Invalid course ID"),
					"404": errResp("Course not found"),
				},
			},
		},
		"/api/v1/courses/{courseID}/interests": {
			Get: &Operation{
				Tags:        []string{"Interests"},
				Summary:     "List the course's interests",
				OperationID: "getCourseInterests",
				Parameters:  []Parameter{courseID},
				Responses: map[string]Response{
					"200": jsonArrayResp("The course's interests, ordered by category and name", "Interest"),
					"404": errResp("Course not found"),
				},
			},
			Post: &Operation{
				Tags:        []string{"Interests"},
				Summary:     "Replace the course's interests",
				OperationID: "saveCourseInterests",
				Security:    bearerAuth,
				Parameters:  []Parameter{courseID},
				RequestBody: jsonBody("SaveInterestsRequest"),
				Responses:   replaceResponses("Course not found"),
			},
		},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func idParam(name, description string) Parameter {
	return Parameter{
		Name:        name,
		In:          "path",
		Description: description,
		Required:    true,
		Schema:      Schema{Type: "integer", Format: "int64", Minimum: ptr(1.0)},
	}
}

func ref(name string) Schema {
	return Schema{Ref: "#/components/schemas/" + name}
}

func jsonBody(schema string) *RequestBody {
	return &RequestBody{
		Required: true,
		Content:  map[string]MediaType{"application/json": {Schema: ref(schema)}},
	}
}

func jsonResp(description, schema string) Response {
	return Response{
		Description: description,
		Content:     map[string]MediaType{"application/json": {Schema: ref(schema)}},
	}
}

func jsonArrayResp(description, schema string) Response {
	item := ref(schema)
	return Response{
		Description: description,
		Content:     map[string]MediaType{"application/json": {Schema: Schema{Type: "array", Items: &item}}},
	}
}

func errResp(description string) Response {
	return jsonResp(description, "ErrorResponse")
}

func replaceResponses(notFound string) map[string]Response {
	return map[string]Response{
		"200": jsonResp("The stored set, deduplicated and sorted", "SaveInterestsResponse"),
		"400": errResp("interestIds missing, not an array or not positive integers"),
		"401": errResp("Missing or invalid token"),
		"403": errResp("Token belongs to another user"),
		"404": errResp(notFound),
		"422": errResp("One or more interestIds do not exist"),
		"503": errResp("Storage temporarily unavailable, the previous set is unchanged"),
	}
}

func ptr[T any](v T) *T { return &v }

func buildSecuritySchemes() map[string]SecurityScheme {
	return map[string]SecurityScheme{
		"BearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "JWT with a numeric 'sub' claim holding the user id and a 'role' claim.",
		},
	}
}

func buildSchemas() map[string]Schema {
	str := Schema{Type: "string"}
	nullableStr := Schema{Type: "string", Nullable: true}
	id := Schema{Type: "integer", Format: "int64"}
	idList := Schema{Type: "array", Items: &Schema{Type: "integer", Format: "int64", Minimum: ptr(1.0)}}

	courseProps := map[string]Schema{
		"id":          id,
		"name":        str,
		"description": str,
		"category":    str,
		"price":       {Type: "number", Minimum: ptr(0.0)},
		"reviews":     {Type: "number", Minimum: ptr(0.0), Maximum: ptr(5.0)},
		"reviewCount": {Type: "integer", Minimum: ptr(0.0)},
		"picture":     {Type: "string", Example: "🎵"},
	}
	courseRequired := []string{"id", "name", "description", "category", "price", "reviews", "reviewCount", "picture"}

	enrichedProps := map[string]Schema{
		"isForYou":          {Type: "boolean", Description: "True when the course shares at least one interest with the user"},
		"matchingInterests": {Type: "array", Items: &str, Description: "Names of the shared interests in course order"},
	}
	for k, v := range courseProps {
		enrichedProps[k] = v
	}

	return map[string]Schema{
		"ErrorResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"error":   {Type: "string", Description: "Human-readable error message"},
				"details": {Type: "array", Items: &str, Description: "Per-field validation errors"},
			},
			Required: []string{"error"},
		},
		"Interest": {
			Type: "object",
			Properties: map[string]Schema{
				"id":       id,
				"name":     str,
				"category": str,
			},
			Required: []string{"id", "name", "category"},
		},
		"Course": {
			Type:       "object",
			Properties: courseProps,
			Required:   courseRequired,
		},
		"EnrichedCourse": {
			Type:       "object",
			Properties: enrichedProps,
			Required:   append([]string{"isForYou", "matchingInterests"}, courseRequired...),
		},
		"CreateCourseRequest": {
			Type: "object",
			Properties: map[string]Schema{
				"name":        {Type: "string", MaxLength: 255},
				"description": {Type: "string", MaxLength: 2000},
				"category":    {Type: "string", MaxLength: 100},
				"price":       {Type: "number", Minimum: ptr(0.0)},
				"reviews":     {Type: "number", Minimum: ptr(0.0), Maximum: ptr(5.0)},
				"reviewCount": {Type: "integer", Minimum: ptr(0.0)},
				"picture":     {Type: "string", Description: "Defaults to 🎵"},
				"interestIds": idList,
			},
			Required: []string{"name", "description", "category", "price"},
		},
		"SaveInterestsRequest": {
			Type:       "object",
			Properties: map[string]Schema{"interestIds": idList},
			Required:   []string{"interestIds"},
		},
		"SaveInterestsResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"message":     str,
				"interestIds": idList,
			},
			Required: []string{"message", "interestIds"},
		},
		"User": {
			Type: "object",
			Properties: map[string]Schema{
				"id":          id,
				"username":    str,
				"email":       nullableStr,
				"role":        {Type: "string", Enum: []string{"student"}},
				"displayName": nullableStr,
				"bio":         nullableStr,
				"avatarUrl":   nullableStr,
				"themePref":   {Type: "string", Enum: []string{"dark", "light"}, Nullable: true},
				"createdAt":   {Type: "string", Format: "date-time"},
				"updatedAt":   {Type: "string", Format: "date-time"},
			},
			Required: []string{"id", "username", "role", "createdAt", "updatedAt"},
		},
		"RegisterRequest": {
			Type: "object",
			Properties: map[string]Schema{
				"username": {Type: "string", MinLength: 3, MaxLength: 50},
				"password": {Type: "string", MinLength: 6, MaxLength: 72},
				"email":    {Type: "string", Format: "email"},
			},
			Required: []string{"username", "password"},
		},
		"RegisterResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"message": str,
				"user":    ref("User"),
			},
			Required: []string{"message", "user"},
		},
		"LoginRequest": {
			Type: "object",
			Properties: map[string]Schema{
				"username": str,
				"password": str,
			},
			Required: []string{"username", "password"},
		},
		"LoginResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"token": str,
				"user":  ref("User"),
			},
			Required: []string{"token", "user"},
		},
		"UpdateProfileRequest": {
			Type: "object",
			Properties: map[string]Schema{
				"displayName": {Type: "string", MaxLength: 255},
				"bio":         {Type: "string", MaxLength: 2000},
				"avatarUrl":   {Type: "string", MaxLength: 2048},
				"themePref":   {Type: "string", Enum: []string{"dark", "light"}},
			},
		},
	}
}

// ---------------------------------------------------------------------------
// File writers
// ---------------------------------------------------------------------------

func writeJSON(spec OpenAPI, path string) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func writeYAML(spec OpenAPI, path string) error {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func main() {
	_, src, _, _ := runtime.Caller(0)
	outDir := filepath.Join(filepath.Join(filepath.Dir(src), "..", ".."), "api")

	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create api/ directory: %v\n", err)
		os.Exit(1)
	}

	spec := buildSpec()

	jsonPath := filepath.Join(outDir, "swagger.json")
	if err := writeJSON(spec, jsonPath); err != nil {
		fmt.Fprintf(os.Stderr, "error writing JSON: %v\n", err)
		os.Exit(1)
	}

	yamlPath := filepath.Join(outDir, "swagger.yaml")
	if err := writeYAML(spec, yamlPath); err != nil {
		fmt.Fprintf(os.Stderr, "error writing YAML: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Swagger specs generated:\n  %s\n  %s\n", jsonPath, yamlPath)
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hugohenrick/sumy-api/pkg/logger"
	"github.com/invopop/jsonschema"
	openai "github.com/sashabaranov/go-openai"
	"github.com/xeipuuv/gojsonschema"
)

// Tool descreve uma ferramenta que o assistente pode chamar
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Handler     Handler
}

// NewTool cria uma ferramenta cujo schema é refletido do tipo de argumentos T
func NewTool[T any](name, description string, fn func(ctx context.Context, call Call, args T) (*Result, error)) Tool {
	var zero T
	return Tool{
		Name:        name,
		Description: description,
		Parameters:  ReflectSchema(&zero),
		Handler: func(ctx context.Context, call Call) (*Result, error) {
			var args T
			if err := json.Unmarshal(call.Arguments, &args); err != nil {
				return Failure("argumentos inválidos: " + err.Error()), nil
			}
			return fn(ctx, call, args)
		},
	}
}

// ReflectSchema gera o JSON Schema de uma struct de argumentos, sem referências
func ReflectSchema(v any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(v)
	schema.Version = ""
	schema.ID = ""
	if schema.Type == "" {
		schema.Type = "object"
	}
	return schema
}

type registeredTool struct {
	tool      Tool
	validator *gojsonschema.Schema
}

// Registry mantém as ferramentas disponíveis e despacha as chamadas do assistente
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*registeredTool
	logger logger.Logger
}

// NewRegistry cria uma nova instância de Registry
func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]*registeredTool),
		logger: log,
	}
}

// Register adiciona uma ferramenta, compilando o schema dos argumentos
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("nome da ferramenta não pode ser vazio")
	}
	if t.Handler == nil {
		return fmt.Errorf("ferramenta %s sem handler", t.Name)
	}
	if t.Parameters == nil {
		t.Parameters = &jsonschema.Schema{Type: "object"}
	}

	validator, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(t.Parameters))
	if err != nil {
		return fmt.Errorf("schema inválido para %s: %w", t.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("ferramenta %s já registrada", t.Name)
	}
	r.tools[t.Name] = &registeredTool{tool: t, validator: validator}
	r.logger.Info("Ferramenta registrada", "tool", t.Name)
	return nil
}

// Names retorna os nomes registrados em ordem alfabética
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNamesLocked()
}

// AssistantTools retorna as definições no formato da API de assistentes
func (r *Registry) AssistantTools() []openai.AssistantTool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]openai.AssistantTool, 0, len(r.tools))
	for _, name := range r.sortedNamesLocked() {
		t := r.tools[name].tool
		out = append(out, openai.AssistantTool{
			Type: openai.AssistantToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

// Dispatch executa a ferramenta chamada pelo assistente.
// Uma ferramenta não registrada retorna ErrUnknownTool; qualquer outra falha vira um Result de erro.
func (r *Registry) Dispatch(ctx context.Context, call Call) (res *Result, err error) {
	r.mu.RLock()
	rt, ok := r.tools[call.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
	}

	log := r.logger.With("tool", call.Name, "call_id", call.ID, "user_id", call.OwnerID)

	defer func() {
		if p := recover(); p != nil {
			log.Error("Pânico ao executar ferramenta", "panic", fmt.Sprint(p))
			res, err = Failure(fmt.Sprintf("erro interno ao executar %s", call.Name)), nil
		}
	}()

	args := call.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	call.Arguments = args

	validation, verr := rt.validator.Validate(gojsonschema.NewBytesLoader(args))
	if verr != nil {
		log.Warn("Argumentos não são JSON válido", "error", verr)
		return Failure("argumentos inválidos: " + verr.Error()), nil
	}
	if !validation.Valid() {
		msgs := make([]string, 0, len(validation.Errors()))
		for _, e := range validation.Errors() {
			msgs = append(msgs, e.String())
		}
		log.Warn("Argumentos rejeitados pelo schema", "errors", msgs)
		return Failure("argumentos inválidos: " + strings.Join(msgs, "; ")), nil
	}

	result, herr := rt.tool.Handler(ctx, call)
	if herr != nil {
		log.Error("Erro ao executar ferramenta", "error", herr)
		return Failure(herr.Error()), nil
	}
	if result == nil {
		return Failure(fmt.Sprintf("ferramenta %s não retornou resultado", call.Name)), nil
	}

	log.Info("Ferramenta executada", "status", result.Status)
	return result, nil
}

func (r *Registry) sortedNamesLocked() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

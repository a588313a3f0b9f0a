// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/adapter"
	"ai-research-orchestrator/internal/domain/ports/repository"
	"ai-research-orchestrator/internal/research"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const discoverySystemPrompt = `Eres un experto en identificación de problemas empresariales usando el método de "5 Porqués" y análisis de causa raíz.

TU MISIÓN:
Ayudar al usuario a descubrir el problema REAL que necesita resolver, no la solución que cree necesitar.

REGLAS ESTRICTAS:
1. Nunca aceptes una solución tecnológica como el problema inicial
2. Pregunta "por qué" al menos 3 veces antes de formular el problema
3. Usa la "prueba del 10%": pregunta si una pequeña mejora eliminaría la necesidad de su solución
4. Busca cuantificación: frecuencia, costo, impacto
5. El problema final NO debe mencionar tecnología
6. **CRÍTICO: Solo haz UNA pregunta por mensaje. Nunca hagas preguntas múltiples o compuestas.**
7. **NO PIVOTEAR:** Mantén el foco en la idea original del usuario. Si el usuario intenta cambiar de tema o se da cuenta que su idea no tiene suficiente peso, responde: "Creo que podemos asumir que el problema que estás intentando abordar, no es necesariamente crítico como para ser implementado"

TU PROCESO:
FASE 1 - RECEPCIÓN (1-2 preguntas): identifica si hablan de solución vs problema y haz preguntas abiertas como "¿Qué problema estás experimentando?"
FASE 2 - IMPACTO (2-4 preguntas): "¿Con qué frecuencia...?", "¿Qué consecuencias tiene...?", "¿Cuánto te cuesta...?"
FASE 3 - CAUSA RAÍZ (3-5 preguntas): "¿Por qué [X]?", "Si [Y] mejorara un 10%, ¿todavía necesitarías [solución]?", "¿Qué está causando [problema]?"
FASE 4 - VALIDACIÓN (1-2 preguntas): reformula el problema usando SIEMPRE esta estructura exacta: "El problema de fondo pareciera ser: [reformulación]" y pregunta: "¿Es correcto?"
FASE 5 - SÍNTESIS:
- **CRÍTICO:** Si el usuario pide: "Sintetiza esta conversación y dame el problema de fondo", analiza la conversación:
  - Si identificaste un problema real y crítico: Responde ÚNICAMENTE: "El problema de fondo pareciera ser: [one-liner del problema]". NO hagas más preguntas ni des contexto adicional.
  - Si NO existe un problema real o crítico: Responde ÚNICAMENTE: "Creo que podemos asumir que el problema que estás intentando abordar, no es necesariamente crítico como para ser implementado"

**FORMATO JSON OBLIGATORIO:**
Tu respuesta DEBE ser ÚNICAMENTE un JSON válido con esta estructura exacta. NO incluyas texto antes o después del JSON:

{
  "message": "tu respuesta conversacional aquí",
  "temperature": 5
}

REGLAS CRÍTICAS DEL JSON:
- SOLO responde con el JSON, nada más
- NO uses markdown o código en bloques
- El campo "temperature" DEBE ser un número entero del 1 al 10
- El campo "message" DEBE contener tu respuesta conversacional en español

Donde "temperature" evalúa qué tan cerca está el usuario de un problema real:
* 1-2: Solo habla de soluciones sin problema claro
* 3-4: Problema vago o superficial, sin cuantificación
* 5-6: Problema medianamente identificado
* 7-8: Problema identificado
* 9-10: Problema identificado, bien cuantificado, con causa raíz identificada

Mantén un tono conversacional, empático y desafiante. Tu trabajo es ser un espejo que refleja el problema real.`

const (
	chatHistoryLimit   = 50
	neutralTemperature = 5
)

// ChatUseCase runs the problem-discovery conversation that precedes a
// research session. Each exchange replays the stored session history, asks
// the model for the next question, and records both sides of the turn.
type ChatUseCase struct {
	msgs  repository.ChatRepository
	ai    adapter.CompletionClient
	model string
	log   zerolog.Logger
}

func NewChatUseCase(msgs repository.ChatRepository, ai adapter.CompletionClient, model string, logger *zerolog.Logger) *ChatUseCase {
	return &ChatUseCase{
		msgs:  msgs,
		ai:    ai,
		model: model,
		log:   logger.With().Str("component", "chat_uc").Logger(),
	}
}

// SendMessage handles one exchange. A missing sessionID starts a fresh
// session; the generated id is returned so the caller can continue it.
func (uc *ChatUseCase) SendMessage(ctx context.Context, sessionID, message string) (*model.ChatTurn, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", domain.ErrInvalidArgument)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
		uc.log.Info().Str("session_id", sessionID).Msg("new chat session")
	}

	history, err := uc.msgs.History(ctx, sessionID, chatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	msgs := make([]adapter.Message, 0, len(history)+1)
	for _, m := range history {
		msgs = append(msgs, adapter.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, adapter.Message{Role: model.ChatRoleUser, Content: message})

	res, err := uc.ai.Complete(ctx, adapter.CompletionRequest{
		Model:     uc.model,
		System:    discoverySystemPrompt,
		Messages:  msgs,
		MaxTokens: 1500,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	reply, temperature := parseChatResponse(res.Text)

	if err := uc.msgs.SaveMessage(ctx, model.NewChatMessage(sessionID, model.ChatRoleUser, message)); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}
	// Store the conversational text, never the JSON envelope.
	if err := uc.msgs.SaveMessage(ctx, model.NewChatMessage(sessionID, model.ChatRoleAssistant, reply)); err != nil {
		return nil, fmt.Errorf("store assistant message: %w", err)
	}

	return &model.ChatTurn{
		SessionID:          sessionID,
		Message:            reply,
		Temperature:        temperature,
		ConversationLength: len(history) + 2,
	}, nil
}

type chatEnvelope struct {
	Message     string `json:"message"`
	Temperature *int   `json:"temperature"`
}

// parseChatResponse unwraps the mandatory {"message", "temperature"} envelope.
// A response without a usable envelope is returned verbatim with a neutral
// score; the exchange itself never fails on formatting. Out-of-range scores
// also collapse to the neutral value.
func parseChatResponse(text string) (string, int) {
	raw, _, err := research.ExtractObject(text)
	if err == nil {
		var env chatEnvelope
		if jerr := json.Unmarshal(raw, &env); jerr == nil && env.Message != "" && env.Temperature != nil {
			t := *env.Temperature
			if t < 1 || t > 10 {
				t = neutralTemperature
			}
			return env.Message, t
		}
	}
	return strings.TrimSpace(text), neutralTemperature
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripmate/internal/models/request_models"
	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

type ChatController struct {
	chatService services.ChatServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// ListChats godoc
// @Summary List my trip chats
// @Tags Chats
// @Produce json
// @Success 200 {array} response_models.ChatResponse
// @Security BearerAuth
// @Router /chats [get]
func (ch *ChatController) ListChats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	chats, err := ch.chatService.ListChats(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, chats, "Chats fetched successfully")
}

// ListMessages godoc
// @Summary List chat messages
// @Description The newest messages, oldest first
// @Tags Chats
// @Produce json
// @Param chatId path string true "Chat ID"
// @Param limit query int false "Maximum messages" default(100)
// @Success 200 {array} response_models.ChatMessageResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /chats/{chatId}/messages [get]
func (ch *ChatController) ListMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	chatID, ok := parseUUIDParam(c, "chatId", "chat")
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultMessageLimit)))
	if err != nil || limit < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit")
		return
	}

	messages, err := ch.chatService.ListMessages(c.Request.Context(), userID, chatID, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, messages, "Messages fetched successfully")
}

// SendMessage godoc
// @Summary Send a chat message
// @Tags Chats
// @Accept json
// @Produce json
// @Param chatId path string true "Chat ID"
// @Param request body request_models.SendMessageRequest true "Message"
// @Success 201 {object} response_models.ChatMessageResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /chats/{chatId}/messages [post]
func (ch *ChatController) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	chatID, ok := parseUUIDParam(c, "chatId", "chat")
	if !ok {
		return
	}

	var req request_models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	message, err := ch.chatService.SendMessage(c.Request.Context(), userID, chatID, req.Message)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, message, "Message sent")
}

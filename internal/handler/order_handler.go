package handler

import (
	"go-stockledger/internal/model"
	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(orderID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var order model.Order
	if err := c.BodyParser(&order); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateOrder(&order, actorName(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order created", "data": order})
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var body struct {
		Status    string `json:"status"`
		ChangedBy string `json:"changed_by"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if body.ChangedBy == "" {
		body.ChangedBy = actorName(c)
	}

	order, err := h.service.UpdateStatus(orderID, body.Status, body.ChangedBy)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated", "data": order})
}

func (h *OrderHandler) ApplyPayment(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var input service.ApplyPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if input.ReceivedBy == "" {
		input.ReceivedBy = actorName(c)
	}

	order, err := h.service.ApplyPayment(orderID, input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment recorded", "data": order})
}

package handler

import (
	"go-stockledger/internal/model"
	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExpenseHandler struct {
	service service.ExpenseService
}

func NewExpenseHandler(s service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: s}
}

func (h *ExpenseHandler) GetExpenses(c *fiber.Ctx) error {
	expenses, err := h.service.GetAllExpenses()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(expenses)
}

func (h *ExpenseHandler) CreateExpense(c *fiber.Ctx) error {
	var expense model.Expense
	if err := c.BodyParser(&expense); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateExpense(&expense, actorName(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Expense recorded", "data": expense})
}

func (h *ExpenseHandler) DeleteExpense(c *fiber.Ctx) error {
	expenseID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid expense ID"})
	}

	if err := h.service.DeleteExpense(expenseID, actorName(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Expense deleted"})
}

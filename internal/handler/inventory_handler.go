package handler

import (
	"go-stockledger/internal/model"
	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	catalog   service.CatalogService
	purchases service.PurchaseService
}

func NewInventoryHandler(catalog service.CatalogService, purchases service.PurchaseService) *InventoryHandler {
	return &InventoryHandler{catalog: catalog, purchases: purchases}
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.GetAllProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalog.CreateProduct(&product, actorName(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.catalog.UpdateProduct(productID, &product, actorName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalog.DeleteProduct(productID, actorName(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.GetAllCategories()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}

func (h *InventoryHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalog.CreateCategory(&category, actorName(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *InventoryHandler) UpdateCategory(c *fiber.Ctx) error {
	categoryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.catalog.UpdateCategory(categoryID, body.Name, actorName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": updated})
}

func (h *InventoryHandler) DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if err := h.catalog.DeleteCategory(categoryID, actorName(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

func (h *InventoryHandler) GetPurchases(c *fiber.Ctx) error {
	purchases, err := h.purchases.GetAllPurchases()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(purchases)
}

func (h *InventoryHandler) CreatePurchase(c *fiber.Ctx) error {
	var purchase model.Purchase
	if err := c.BodyParser(&purchase); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.purchases.RecordPurchase(&purchase, actorName(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Purchase recorded", "data": purchase})
}

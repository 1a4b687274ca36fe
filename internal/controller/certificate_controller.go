package controller

import (
	"strconv"

	"kiongozi_backend/internal/service"
	"kiongozi_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// ListMyCertificates godoc
// @Summary 我的证书
// @Tags 证书
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/my/certificates [get]
func (c *CertificateController) ListMyCertificates(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	certificates, err := c.CertificateService.GetUserCertificates(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certificates)
}

// GetCourseCertificate godoc
// @Summary 课程证书
// @Description 当前用户在指定课程的结业证书，未完成课程时返回404
// @Tags 证书
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/courses/{id}/certificate [get]
func (c *CertificateController) GetCourseCertificate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	certificate, err := c.CertificateService.GetCertificate(claims.UserID, uint(id))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, certificate)
}

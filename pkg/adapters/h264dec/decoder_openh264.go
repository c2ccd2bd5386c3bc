//go:build openh264
// +build openh264

package h264dec

/*
#cgo CFLAGS: -I/opt/homebrew/include -I/usr/local/include
#cgo LDFLAGS: -L/opt/homebrew/lib -L/usr/local/lib -lopenh264
#include <wels/codec_api.h>
#include <limits.h>
#include <stdlib.h>
#include <string.h>

ISVCDecoder* nalshow_create_decoder() {
    ISVCDecoder *decoder = NULL;
    int ret = WelsCreateDecoder(&decoder);
    if (ret != 0 || decoder == NULL) {
        return NULL;
    }

    SDecodingParam sDecParam;
    memset(&sDecParam, 0, sizeof(sDecParam));
    sDecParam.uiTargetDqLayer = UCHAR_MAX;
    sDecParam.eEcActiveIdc = ERROR_CON_SLICE_COPY;
    sDecParam.sVideoProperty.eVideoBsType = VIDEO_BITSTREAM_DEFAULT;
    sDecParam.bParseOnly = 0;

    ret = (*decoder)->Initialize(decoder, &sDecParam);
    if (ret != 0) {
        WelsDestroyDecoder(decoder);
        return NULL;
    }

    return decoder;
}

int nalshow_decode_frame(ISVCDecoder *decoder, unsigned char *data, int len,
                         unsigned char **yuv_data, int *width, int *height) {
    unsigned char *pData[3] = {NULL};
    SBufferInfo sDstBufInfo;
    memset(&sDstBufInfo, 0, sizeof(sDstBufInfo));

    int ret = (*decoder)->DecodeFrameNoDelay(decoder, data, len, pData, &sDstBufInfo);
    if (ret != 0) {
        return -1;
    }

    if (sDstBufInfo.iBufferStatus == 1) {
        *width = sDstBufInfo.UsrData.sSystemBuffer.iWidth;
        *height = sDstBufInfo.UsrData.sSystemBuffer.iHeight;

        int ySize = (*width) * (*height);
        int uvSize = ySize / 4;
        int totalSize = ySize + 2 * uvSize;

        *yuv_data = (unsigned char*)malloc(totalSize);
        if (*yuv_data == NULL) {
            return -2;
        }

        int yStride = sDstBufInfo.UsrData.sSystemBuffer.iStride[0];
        int uvStride = sDstBufInfo.UsrData.sSystemBuffer.iStride[1];

        unsigned char *dst = *yuv_data;

        for (int i = 0; i < *height; i++) {
            memcpy(dst, pData[0] + i * yStride, *width);
            dst += *width;
        }

        for (int i = 0; i < (*height / 2); i++) {
            memcpy(dst, pData[1] + i * uvStride, *width / 2);
            dst += (*width / 2);
        }

        for (int i = 0; i < (*height / 2); i++) {
            memcpy(dst, pData[2] + i * uvStride, *width / 2);
            dst += (*width / 2);
        }

        return totalSize;
    }

    return 0;
}

void nalshow_destroy_decoder(ISVCDecoder *decoder) {
    if (decoder != NULL) {
        (*decoder)->Uninitialize(decoder);
        WelsDestroyDecoder(decoder);
    }
}
*/
import "C"
import (
	"fmt"
	"image"
	"sync"
	"unsafe"
)

const openH264Compiled = true

// openH264Decoder wraps the OpenH264 Wels decoder via cgo.
type openH264Decoder struct {
	mu  sync.Mutex
	dec *C.ISVCDecoder
}

func newOpenH264Decoder() backendDecoder {
	return &openH264Decoder{}
}

func (d *openH264Decoder) init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dec != nil {
		return nil
	}
	dec := C.nalshow_create_decoder()
	if dec == nil {
		return fmt.Errorf("create openh264 decoder failed")
	}
	d.dec = dec
	return nil
}

func (d *openH264Decoder) decodeFrame(data []byte) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dec == nil {
		return nil, ErrNotInitialized
	}
	if len(data) == 0 {
		return nil, ErrDecodeFailed
	}

	var yuvData *C.uchar
	var w, h C.int
	ret := C.nalshow_decode_frame(d.dec, (*C.uchar)(unsafe.Pointer(&data[0])), C.int(len(data)), &yuvData, &w, &h)
	if ret < 0 {
		return nil, fmt.Errorf("%w: openh264 status %d", ErrDecodeFailed, int(ret))
	}
	if ret == 0 {
		// No picture ready yet, feed more data.
		return nil, nil
	}

	yuv := C.GoBytes(unsafe.Pointer(yuvData), C.int(ret))
	C.free(unsafe.Pointer(yuvData))

	return i420ToImage(yuv, int(w), int(h)), nil
}

func (d *openH264Decoder) close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dec != nil {
		C.nalshow_destroy_decoder(d.dec)
		d.dec = nil
	}
}

// i420ToImage wraps a packed I420 buffer in an image.YCbCr without copying.
func i420ToImage(yuv []byte, width, height int) image.Image {
	ySize := width * height
	cSize := ySize / 4

	return &image.YCbCr{
		Y:              yuv[:ySize],
		Cb:             yuv[ySize : ySize+cSize],
		Cr:             yuv[ySize+cSize : ySize+2*cSize],
		YStride:        width,
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, width, height),
	}
}
